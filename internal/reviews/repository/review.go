package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	reviewserrors "roost/internal/reviews/errors"
	"roost/pkg/config"
	"roost/pkg/model"
)

const CollectionName = "Reviews"

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id string) (*model.Review, error)
	FindByProperty(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.Review, error)
	FindByUser(ctx context.Context, userID string) ([]*model.Review, error)
	Update(ctx context.Context, id string, update *model.ReviewUpdate) (*model.Review, error)
	Delete(ctx context.Context, id string) error
	CountByProperty(ctx context.Context, propertyID string) (int64, error)
}

type mongoReviewRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReviewRepository(cfg *config.Config) ReviewRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	repo := &mongoReviewRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
	repo.ensureIndexes()
	return repo
}

// ensureIndexes creates the one-review-per-user-per-property constraint. The
// unique index is the source of truth; the service only translates the
// duplicate-key error it produces.
func (r *mongoReviewRepository) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.MongoConnTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "property_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		r.cfg.Log.Error("Failed to ensure review indexes", "error", err)
	}
}

func (r *mongoReviewRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReviewRepository) Create(ctx context.Context, review *model.Review) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	review.CreatedAt = now
	review.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reviewserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, reviewserrors.ErrInvalidID
	}

	var review model.Review
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, reviewserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find review %s: %w", id, err)
	}

	return &review, nil
}

func (r *mongoReviewRepository) FindByProperty(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"property_id": propertyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews for property %s: %w", propertyID, err)
	}
	defer cursor.Close(ctx)

	reviews := make([]*model.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *mongoReviewRepository) FindByUser(ctx context.Context, userID string) ([]*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	reviews := make([]*model.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *mongoReviewRepository) Update(ctx context.Context, id string, update *model.ReviewUpdate) (*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, reviewserrors.ErrInvalidID
	}

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if update.Text != nil {
		set["text"] = *update.Text
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var review model.Review
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, reviewserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update review %s: %w", id, err)
	}

	return &review, nil
}

func (r *mongoReviewRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return reviewserrors.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return reviewserrors.ErrNotFound
	}
	return nil
}

func (r *mongoReviewRepository) CountByProperty(ctx context.Context, propertyID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"property_id": propertyID})
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}
