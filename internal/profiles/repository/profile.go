package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	profileserrors "buffet/internal/profiles/errors"
	"buffet/pkg/config"
	mongodb "buffet/pkg/db/mongo"
	"buffet/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Profiles"

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)
	FindByUserIDs(ctx context.Context, userIDs []string) ([]*model.Profile, error)
	// Upsert writes name, email and phone and returns the stored profile.
	Upsert(ctx context.Context, profile *model.Profile) (*model.Profile, error)
}

type mongoProfileRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoProfileRepository(cfg *config.Config) ProfileRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProfileRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoProfileRepository) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var profile model.Profile
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profileserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &profile, nil
}

func (r *mongoProfileRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]*model.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*model.Profile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	return profiles, nil
}

func (r *mongoProfileRepository) Upsert(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"name":       profile.Name,
			"email":      profile.Email,
			"phone":      profile.Phone,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"user_id":    profile.UserID,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored model.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": profile.UserID}, update, opts).Decode(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &stored, nil
}
