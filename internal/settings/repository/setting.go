package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buffet/pkg/config"
	mongodb "buffet/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Settings"

var ErrNotFound = errors.New("setting not found")

type SettingRepository interface {
	// Get decodes the value stored under key into out.
	Get(ctx context.Context, key string, out any) error
	Upsert(ctx context.Context, key string, value any) error
}

type mongoSettingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSettingRepository(cfg *config.Config) SettingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSettingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSettingRepository) Get(ctx context.Context, key string, out any) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc struct {
		Value bson.RawValue `bson:"value"`
	}
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to find setting %s: %w", key, err)
	}

	if err := doc.Value.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to decode setting %s: %w", key, err)
	}
	return nil
}

func (r *mongoSettingRepository) Upsert(ctx context.Context, key string, value any) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"value":      value,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
		"$setOnInsert": bson.M{"key": key},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"key": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert setting %s: %w", key, err)
	}
	return nil
}
