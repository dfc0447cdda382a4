package repository

import (
	"context"
	"fmt"
	"time"

	"buffet/pkg/config"
	mongodb "buffet/pkg/db/mongo"
	"buffet/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Contact_messages"

type ContactRepository interface {
	Create(ctx context.Context, msg *model.ContactMessage) error
}

type mongoContactRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoContactRepository(cfg *config.Config) ContactRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoContactRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoContactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	msg.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to store contact message: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid.Hex()
	}
	return nil
}
