package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roost/pkg/config"
	"roost/pkg/model"
)

const CollectionName = "Listings"

var (
	ErrNotFound  = errors.New("listing not found")
	ErrInvalidID = errors.New("invalid listing ID format")
)

type ListingRepository interface {
	FindSummaryByID(ctx context.Context, id string) (*model.ListingSummary, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Listing, error)
	FindByCreator(ctx context.Context, creatorID string) ([]*model.Listing, error)
	Update(ctx context.Context, id string, update *model.ListingUpdate) (*model.Listing, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type mongoListingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoListingRepository(cfg *config.Config) ListingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoListingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoListingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoListingRepository) FindSummaryByID(ctx context.Context, id string) (*model.ListingSummary, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var summary model.ListingSummary
	opts := options.FindOne().SetProjection(bson.M{
		"title":       1,
		"city":        1,
		"country":     1,
		"price":       1,
		"photo_paths": 1,
	})
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}, opts).Decode(&summary)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}

	return &summary, nil
}

func (r *mongoListingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Listing, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []*model.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	return listings, nil
}

func (r *mongoListingRepository) FindByCreator(ctx context.Context, creatorID string) ([]*model.Listing, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"creator_id": creatorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find listings by creator: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []*model.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	return listings, nil
}

func (r *mongoListingRepository) Update(ctx context.Context, id string, update *model.ListingUpdate) (*model.Listing, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	sets := bson.M{}
	if update.Title != nil {
		sets["title"] = *update.Title
	}
	if update.Category != nil {
		sets["category"] = *update.Category
	}
	if update.City != nil {
		sets["city"] = *update.City
	}
	if update.Country != nil {
		sets["country"] = *update.Country
	}
	if update.Price != nil {
		sets["price"] = *update.Price
	}
	if update.PhotoPaths != nil {
		sets["photo_paths"] = update.PhotoPaths
	}
	if len(sets) == 0 {
		return nil, errors.New("no listing fields to update")
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Listing
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": sets}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	return &updated, nil
}

func (r *mongoListingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *mongoListingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}
