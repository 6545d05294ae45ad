// Package database provides the MongoDB connection and the moderation
// stores built on top of it. A MemoryStore with the same surface is
// available for local runs without MongoDB.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	// ErrNotFound is returned when a lookup matches no document
	ErrNotFound = errors.New("document not found")
	// ErrNotConnected is returned while the database is offline
	ErrNotConnected = errors.New("database not connected")
	// ErrDuplicate is returned when a unique index rejects a write
	ErrDuplicate = errors.New("duplicate document")
)

// Collection names
const (
	CollectionWarns            = "warns"
	CollectionOffences         = "offences"
	CollectionThresholds       = "thresholds"
	CollectionAutocompletes    = "autocompletes"
	CollectionPendingSanctions = "pending_sanctions"
	CollectionTrigramStores    = "trigram_stores"
	collectionCounters         = "counters"
)

// Database manages the MongoDB connection
type Database struct {
	client          *mongo.Client
	db              *mongo.Database
	connected       bool
	reconnectTicker *time.Ticker
	stopReconnect   chan struct{}
	stopOnce        sync.Once
	mu              sync.RWMutex
	collections     map[string]*mongo.Collection
}

var (
	database *Database
	dbOnce   sync.Once
)

// Init initializes the global database instance. On failure the instance is
// still returned and keeps retrying in the background.
func Init(mongoURL, dbName string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database = NewDatabase()
		err = database.Connect(mongoURL, dbName)
	})
	return database, err
}

// Get returns the global database instance
func Get() *Database {
	return database
}

// NewDatabase creates a new Database instance
func NewDatabase() *Database {
	return &Database{
		stopReconnect: make(chan struct{}),
		collections:   make(map[string]*mongo.Collection),
	}
}

// Connect establishes a connection to MongoDB
func (d *Database) Connect(mongoURL, dbName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return nil
	}

	logger.System("Intentando conectar a la base de datos...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Critical("Fallo al conectar con la base de datos.", "DB")
		d.scheduleReconnect(mongoURL, dbName)
		return err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical("Fallo al verificar conexión con la base de datos.", "DB")
		_ = client.Disconnect(ctx)
		d.scheduleReconnect(mongoURL, dbName)
		return err
	}

	d.client = client
	d.db = client.Database(dbName)
	d.collections = make(map[string]*mongo.Collection)
	d.connected = true

	logger.Success("Conectado exitosamente a la base de datos.", "DB")

	if d.reconnectTicker != nil {
		d.reconnectTicker.Stop()
		d.reconnectTicker = nil
	}

	return nil
}

// scheduleReconnect starts reconnection attempts. Caller holds d.mu.
func (d *Database) scheduleReconnect(mongoURL, dbName string) {
	d.connected = false
	if d.reconnectTicker != nil {
		return
	}
	logger.Warn("Sin conexión con la base de datos. Reintentando cada 15s.", "DB")

	ticker := time.NewTicker(15 * time.Second)
	d.reconnectTicker = ticker
	go func() {
		for {
			select {
			case <-ticker.C:
				logger.Info("Intentando reconectar a la base de datos...", "DB")
				if err := d.Connect(mongoURL, dbName); err == nil {
					return
				}
			case <-d.stopReconnect:
				return
			}
		}
	}()
}

// Disconnect closes the database connection
func (d *Database) Disconnect() error {
	d.stopOnce.Do(func() { close(d.stopReconnect) })

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reconnectTicker != nil {
		d.reconnectTicker.Stop()
		d.reconnectTicker = nil
	}

	if d.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.client.Disconnect(ctx); err != nil {
			return err
		}
		d.connected = false
		logger.Warn("La base de datos ha sido desconectada", "DB")
	}
	return nil
}

// Connected reports whether the last connection attempt succeeded
func (d *Database) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// Ping measures the database response time
func (d *Database) Ping(ctx context.Context) (time.Duration, error) {
	d.mu.RLock()
	client := d.client
	connected := d.connected
	d.mu.RUnlock()

	if !connected || client == nil {
		return 0, ErrNotConnected
	}

	start := time.Now()
	err := client.Ping(ctx, readpref.Primary())
	return time.Since(start), err
}

// GetStatus returns the database connection status
func (d *Database) GetStatus() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := d.Ping(ctx); err != nil {
		return "🔴 | Desconectado", false
	}
	return "🟢 | En linea", true
}

// GetCollection returns a MongoDB collection, or nil while offline
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	if col, exists := d.collections[name]; exists {
		d.mu.RUnlock()
		return col
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}

	col := d.db.Collection(name)
	d.collections[name] = col
	return col
}

// NextID returns the next value of the named sequence
func (d *Database) NextID(ctx context.Context, sequence string) (int64, error) {
	col := d.GetCollection(collectionCounters)
	if col == nil {
		return 0, ErrNotConnected
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := col.FindOneAndUpdate(ctx, bson.M{"_id": sequence}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next id for %s: %w", sequence, err)
	}
	return counter.Seq, nil
}

// EnsureIndexes creates the indexes the stores rely on
func (d *Database) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionWarns: {
			{Keys: bson.D{{Key: "guildId", Value: 1}, {Key: "userId", Value: 1}}},
		},
		CollectionOffences: {
			{Keys: bson.D{{Key: "guildId", Value: 1}, {Key: "userId", Value: 1}, {Key: "thresholdPoints", Value: 1}}},
		},
		CollectionThresholds: {
			{Keys: bson.D{{Key: "guildId", Value: 1}, {Key: "points", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionAutocompletes: {
			{Keys: bson.D{{Key: "guildId", Value: 1}, {Key: "reason", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionPendingSanctions: {
			{Keys: bson.D{{Key: "guildId", Value: 1}, {Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}},
		},
	}

	for name, idx := range indexes {
		col := d.GetCollection(name)
		if col == nil {
			return ErrNotConnected
		}
		if _, err := col.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("creating indexes on %s: %w", name, err)
		}
	}
	logger.Success("Índices de la base de datos verificados.", "DB")
	return nil
}

// Client returns the underlying MongoDB client
func (d *Database) Client() *mongo.Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.client
}
