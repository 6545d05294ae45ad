package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	MaxCacheSize int
	CacheTTL     time.Duration
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
		CacheTTL:     10 * time.Minute,
	}
}

// DataManager provides typed access to a MongoDB collection, with an
// expiring LRU for list queries that are read far more often than written.
type DataManager[T any] struct {
	name    string
	db      *Database
	cache   *expirable.LRU[string, []*T]
	options DataManagerOptions
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}

	return &DataManager[T]{
		name:    collectionName,
		db:      db,
		cache:   expirable.NewLRU[string, []*T](dmOptions.MaxCacheSize, nil, dmOptions.CacheTTL),
		options: dmOptions,
	}
}

func (dm *DataManager[T]) collection() (*mongo.Collection, error) {
	if dm.db == nil || !dm.db.Connected() {
		return nil, ErrNotConnected
	}
	col := dm.db.GetCollection(dm.name)
	if col == nil {
		return nil, ErrNotConnected
	}
	return col, nil
}

// generateCacheKey creates a unique, deterministic key from a query
// It sorts the keys to ensure consistent ordering regardless of map iteration order
func (dm *DataManager[T]) generateCacheKey(query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}

	return fmt.Sprintf("%s:{%s}", dm.name, strings.Join(parts, ","))
}

// FindOne returns the first document matching filter, or ErrNotFound
func (dm *DataManager[T]) FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*T, error) {
	col, err := dm.collection()
	if err != nil {
		return nil, err
	}

	var result T
	if err := col.FindOne(ctx, filter, opts...).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// Find returns every document matching filter in sort order
func (dm *DataManager[T]) Find(ctx context.Context, filter bson.M, sortBy bson.D) ([]*T, error) {
	col, err := dm.collection()
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, filter, options.Find().SetSort(sortBy))
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	results := make([]*T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			logger.Warn(fmt.Sprintf("Documento ilegible en '%s': %v", dm.name, err), "DataManager")
			continue
		}
		results = append(results, &doc)
	}

	return results, cursor.Err()
}

// FindCached is Find behind the LRU. Writers must call Invalidate with the
// same filter.
func (dm *DataManager[T]) FindCached(ctx context.Context, filter bson.M, sortBy bson.D) ([]*T, error) {
	key := dm.generateCacheKey(filter)
	if cached, ok := dm.cache.Get(key); ok {
		return cached, nil
	}

	results, err := dm.Find(ctx, filter, sortBy)
	if err != nil {
		return nil, err
	}
	dm.cache.Add(key, results)
	return results, nil
}

// Invalidate drops the cached result of filter
func (dm *DataManager[T]) Invalidate(filter bson.M) {
	dm.cache.Remove(dm.generateCacheKey(filter))
}

// InsertOne stores doc
func (dm *DataManager[T]) InsertOne(ctx context.Context, doc *T) error {
	col, err := dm.collection()
	if err != nil {
		return err
	}
	if _, err := col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Upsert applies update to the document matching filter, creating it if needed
func (dm *DataManager[T]) Upsert(ctx context.Context, filter, update bson.M) error {
	col, err := dm.collection()
	if err != nil {
		return err
	}
	_, err = col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// UpdateOne applies update to the document matching filter. It returns
// ErrNotFound when nothing matched.
func (dm *DataManager[T]) UpdateOne(ctx context.Context, filter, update bson.M) error {
	col, err := dm.collection()
	if err != nil {
		return err
	}
	res, err := col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateMany applies update to every matching document
func (dm *DataManager[T]) UpdateMany(ctx context.Context, filter, update bson.M) (int64, error) {
	col, err := dm.collection()
	if err != nil {
		return 0, err
	}
	res, err := col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Exists reports whether any document matches filter
func (dm *DataManager[T]) Exists(ctx context.Context, filter bson.M) (bool, error) {
	col, err := dm.collection()
	if err != nil {
		return false, err
	}
	n, err := col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

// DeleteMany removes every matching document
func (dm *DataManager[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	col, err := dm.collection()
	if err != nil {
		return 0, err
	}
	res, err := col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CacheSize returns the current cache size
func (dm *DataManager[T]) CacheSize() int {
	return dm.cache.Len()
}
