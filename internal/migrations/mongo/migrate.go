package mongo

import (
	"context"
	"fmt"

	bookingsrepo "buffet/internal/bookings/repository"
	contactrepo "buffet/internal/contact/repository"
	draftsrepo "buffet/internal/drafts/repository"
	"buffet/internal/migrations/mongo/validators"
	profilesrepo "buffet/internal/profiles/repository"
	settingsrepo "buffet/internal/settings/repository"
	"buffet/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "scheduled_start", Value: -1}}},
		{Keys: bson.D{{Key: "scheduled_start", Value: 1}, {Key: "status", Value: 1}}},
		{
			Keys:    bson.D{{Key: "scheduler_event_uri", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "scheduler_invitee_uri", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	DraftsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	ProfilesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	SettingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	ContactIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	// Expired slot locks are removed by the server.
	LocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections lists every collection the services use.
func Collections() map[string]collectionDef {
	return map[string]collectionDef{
		bookingsrepo.CollectionName:     {Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		draftsrepo.CollectionName:       {Indexes: DraftsIndexes, Validator: validators.DraftValidator},
		profilesrepo.CollectionName:     {Indexes: ProfilesIndexes, Validator: validators.ProfileValidator},
		settingsrepo.CollectionName:     {Indexes: SettingsIndexes, Validator: validators.SettingValidator},
		contactrepo.CollectionName:      {Indexes: ContactIndexes, Validator: validators.ContactValidator},
		bookingsrepo.LockCollectionName: {Indexes: LocksIndexes, Validator: validators.BookingLockValidator},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
