package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	draftserrors "buffet/internal/drafts/errors"
	"buffet/pkg/config"
	mongodb "buffet/pkg/db/mongo"
	"buffet/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Booking_drafts"

type DraftRepository interface {
	Create(ctx context.Context, draft *model.BookingDraft) error
	FindByID(ctx context.Context, id string) (*model.BookingDraft, error)
	// Replace overwrites the form fields of a draft.
	Replace(ctx context.Context, draft *model.BookingDraft) error
	MarkBooked(ctx context.Context, id string) error
}

type mongoDraftRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDraftRepository(cfg *config.Config) DraftRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDraftRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoDraftRepository) Create(ctx context.Context, draft *model.BookingDraft) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	draft.CreatedAt = now
	draft.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to create booking draft: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		draft.ID = oid.Hex()
	}
	return nil
}

func (r *mongoDraftRepository) FindByID(ctx context.Context, id string) (*model.BookingDraft, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", draftserrors.ErrInvalidID, id)
	}

	var draft model.BookingDraft
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&draft)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, draftserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking draft: %w", err)
	}
	return &draft, nil
}

func (r *mongoDraftRepository) Replace(ctx context.Context, draft *model.BookingDraft) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(draft.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", draftserrors.ErrInvalidID, draft.ID)
	}

	draft.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"name":        draft.Name,
			"email":       draft.Email,
			"phone":       draft.Phone,
			"guest_count": draft.GuestCount,
			"session":     draft.Session,
			"notes":       draft.Notes,
			"updated_at":  draft.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking draft: %w", err)
	}
	if result.MatchedCount == 0 {
		return draftserrors.ErrNotFound
	}
	return nil
}

func (r *mongoDraftRepository) MarkBooked(ctx context.Context, id string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", draftserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"status":     model.DraftBooked,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to mark booking draft booked: %w", err)
	}
	if result.MatchedCount == 0 {
		return draftserrors.ErrNotFound
	}
	return nil
}
