package repository

import (
	"context"
	"time"

	"buffet/pkg/config"
	mongodb "buffet/pkg/db/mongo"
	"buffet/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Booking_locks"

// BookingLockRepository stores advisory locks on buffet sessions.
type BookingLockRepository interface {
	// Create fails with a duplicate key error while the lock is held.
	Create(ctx context.Context, lock *model.BookingLock) error
	Delete(ctx context.Context, lockID, owner string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoBookingLockRepository) Create(ctx context.Context, lock *model.BookingLock) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock.CreatedAt = now
	_, err := r.collection.InsertOne(ctx, lock)
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}

	// The TTL monitor runs about once a minute; clear an expired holder ourselves.
	res, delErr := r.collection.DeleteOne(ctx, bson.M{"_id": lock.ID, "expires_at": bson.M{"$lt": now}})
	if delErr != nil || res.DeletedCount == 0 {
		return err
	}
	_, err = r.collection.InsertOne(ctx, lock)
	return err
}

// Delete only releases a lock its owner still holds.
func (r *mongoBookingLockRepository) Delete(ctx context.Context, lockID, owner string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "owner": owner})
	return err
}
