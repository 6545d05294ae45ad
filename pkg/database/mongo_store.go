package database

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps ledgers, thresholds, sanctions and corpora in MongoDB
type MongoStore struct {
	db            *Database
	warns         *DataManager[models.WarnEntry]
	offences      *DataManager[models.OffenceEntry]
	thresholds    *DataManager[models.Threshold]
	autocompletes *DataManager[models.AutocompleteSuggestion]
	sanctions     *DataManager[models.PendingSanction]
	corpora       *DataManager[models.TrigramStore]
}

// NewMongoStore creates a MongoStore over db
func NewMongoStore(db *Database) *MongoStore {
	return &MongoStore{
		db:            db,
		warns:         NewDataManager[models.WarnEntry](CollectionWarns, db),
		offences:      NewDataManager[models.OffenceEntry](CollectionOffences, db),
		thresholds:    NewDataManager[models.Threshold](CollectionThresholds, db),
		autocompletes: NewDataManager[models.AutocompleteSuggestion](CollectionAutocompletes, db),
		sanctions:     NewDataManager[models.PendingSanction](CollectionPendingSanctions, db),
		corpora:       NewDataManager[models.TrigramStore](CollectionTrigramStores, db),
	}
}

var byID = bson.D{{Key: "_id", Value: 1}}

func subject(guildID, userID string) bson.M {
	return bson.M{"guildId": guildID, "userId": userID}
}

func (s *MongoStore) nextID(ctx context.Context, collection string) (int64, error) {
	if !s.db.Connected() {
		return 0, ErrNotConnected
	}
	return s.db.NextID(ctx, collection)
}

// Warn ledger

func (s *MongoStore) InsertWarn(ctx context.Context, w *models.WarnEntry) error {
	id, err := s.nextID(ctx, CollectionWarns)
	if err != nil {
		return err
	}
	w.ID = id
	return s.warns.InsertOne(ctx, w)
}

func (s *MongoStore) WarnsFor(ctx context.Context, guildID, userID string) ([]*models.WarnEntry, error) {
	return s.warns.Find(ctx, subject(guildID, userID), byID)
}

func (s *MongoStore) GetWarn(ctx context.Context, guildID string, id int64) (*models.WarnEntry, error) {
	return s.warns.FindOne(ctx, bson.M{"_id": id, "guildId": guildID})
}

func (s *MongoStore) DeleteWarn(ctx context.Context, guildID string, id int64) error {
	n, err := s.warns.DeleteMany(ctx, bson.M{"_id": id, "guildId": guildID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Offences

func (s *MongoStore) InsertOffence(ctx context.Context, o *models.OffenceEntry) error {
	id, err := s.nextID(ctx, CollectionOffences)
	if err != nil {
		return err
	}
	o.ID = id
	return s.offences.InsertOne(ctx, o)
}

func (s *MongoStore) OffencesFor(ctx context.Context, guildID, userID string) ([]*models.OffenceEntry, error) {
	return s.offences.Find(ctx, subject(guildID, userID), byID)
}

func (s *MongoStore) HasActiveThresholdOffence(ctx context.Context, guildID, userID string, points int) (bool, error) {
	filter := subject(guildID, userID)
	filter["thresholdPoints"] = points
	filter["pardoned"] = false
	return s.offences.Exists(ctx, filter)
}

func (s *MongoStore) PardonThresholdOffences(ctx context.Context, guildID, userID string, points []int) (int64, error) {
	if len(points) == 0 {
		return 0, nil
	}
	filter := subject(guildID, userID)
	filter["thresholdPoints"] = bson.M{"$in": points}
	filter["pardoned"] = false
	return s.offences.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"pardoned": true}})
}

// Thresholds

func (s *MongoStore) Thresholds(ctx context.Context, guildID string) ([]*models.Threshold, error) {
	return s.thresholds.FindCached(ctx, bson.M{"guildId": guildID}, bson.D{{Key: "points", Value: 1}})
}

func (s *MongoStore) InsertThreshold(ctx context.Context, t *models.Threshold) error {
	id, err := s.nextID(ctx, CollectionThresholds)
	if err != nil {
		return err
	}
	t.ID = id
	defer s.thresholds.Invalidate(bson.M{"guildId": t.GuildID})
	return s.thresholds.InsertOne(ctx, t)
}

func (s *MongoStore) DeleteThresholds(ctx context.Context, guildID string, ids []int64) (int64, error) {
	defer s.thresholds.Invalidate(bson.M{"guildId": guildID})
	return s.thresholds.DeleteMany(ctx, bson.M{"guildId": guildID, "_id": bson.M{"$in": ids}})
}

// Autocomplete suggestions

func (s *MongoStore) Autocompletes(ctx context.Context, guildID string) ([]*models.AutocompleteSuggestion, error) {
	return s.autocompletes.FindCached(ctx, bson.M{"guildId": guildID}, byID)
}

func (s *MongoStore) InsertAutocomplete(ctx context.Context, a *models.AutocompleteSuggestion) error {
	id, err := s.nextID(ctx, CollectionAutocompletes)
	if err != nil {
		return err
	}
	a.ID = id
	defer s.autocompletes.Invalidate(bson.M{"guildId": a.GuildID})
	return s.autocompletes.InsertOne(ctx, a)
}

func (s *MongoStore) DeleteAutocompletes(ctx context.Context, guildID string, ids []int64) (int64, error) {
	defer s.autocompletes.Invalidate(bson.M{"guildId": guildID})
	return s.autocompletes.DeleteMany(ctx, bson.M{"guildId": guildID, "_id": bson.M{"$in": ids}})
}

// Pending sanctions

func (s *MongoStore) ReplacePendingSanction(ctx context.Context, p *models.PendingSanction) error {
	if _, err := s.sanctions.DeleteMany(ctx, subject(p.GuildID, p.UserID)); err != nil {
		return fmt.Errorf("clearing previous sanction: %w", err)
	}
	id, err := s.nextID(ctx, CollectionPendingSanctions)
	if err != nil {
		return err
	}
	p.ID = id
	return s.sanctions.InsertOne(ctx, p)
}

func (s *MongoStore) DeletePendingSanction(ctx context.Context, guildID, userID string) (int64, error) {
	return s.sanctions.DeleteMany(ctx, subject(guildID, userID))
}

func (s *MongoStore) DueSanctions(ctx context.Context, now time.Time) ([]*models.PendingSanction, error) {
	return s.sanctions.Find(ctx, bson.M{"expiresAt": bson.M{"$lte": now}}, bson.D{{Key: "expiresAt", Value: 1}})
}

func (s *MongoStore) DeletePendingSanctionByID(ctx context.Context, id int64) error {
	_, err := s.sanctions.DeleteMany(ctx, bson.M{"_id": id})
	return err
}

// Trigram corpora

func (s *MongoStore) CorpusChannel(ctx context.Context, guildID string) (string, error) {
	opts := options.FindOne().SetProjection(bson.M{"channelId": 1})
	doc, err := s.corpora.FindOne(ctx, bson.M{"_id": guildID}, opts)
	if err != nil {
		return "", err
	}
	return doc.ChannelID, nil
}

func (s *MongoStore) Corpus(ctx context.Context, guildID string) (*models.TrigramStore, error) {
	return s.corpora.FindOne(ctx, bson.M{"_id": guildID})
}

func (s *MongoStore) SetCorpusChannel(ctx context.Context, guildID, channelID string) error {
	return s.corpora.Upsert(ctx, bson.M{"_id": guildID}, bson.M{
		"$set":         bson.M{"channelId": channelID},
		"$setOnInsert": bson.M{"trigrams": bson.A{}},
	})
}

func (s *MongoStore) AppendTrigrams(ctx context.Context, guildID string, trigrams []string) error {
	return s.corpora.UpdateOne(ctx, bson.M{"_id": guildID}, bson.M{
		"$push": bson.M{"trigrams": bson.M{"$each": trigrams}},
	})
}
