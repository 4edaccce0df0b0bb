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

const CollectionName = "Users"

var (
	ErrNotFound  = errors.New("user not found")
	ErrInvalidID = errors.New("invalid user ID format")
)

// summaryProjection limits joined user data to display fields; the password
// hash and admin flag stay out of API responses.
var summaryProjection = bson.M{
	"first_name":         1,
	"last_name":          1,
	"email":              1,
	"profile_image_path": 1,
}

type UserRepository interface {
	FindSummaryByID(ctx context.Context, id string) (*model.UserSummary, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error)
	ToggleWishlist(ctx context.Context, userID, listingID string) (*model.User, bool, error)
	Update(ctx context.Context, id string, update *model.UserUpdate) (*model.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoUserRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoUserRepository) FindSummaryByID(ctx context.Context, id string) (*model.UserSummary, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var summary model.UserSummary
	opts := options.FindOne().SetProjection(summaryProjection)
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}, opts).Decode(&summary)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &summary, nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var user model.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// ToggleWishlist removes listingID from the user's wishlist when present,
// adds it otherwise. The membership check and the mutation are a single
// conditional update, so concurrent toggles never double-add an entry.
func (r *mongoUserRepository) ToggleWishlist(ctx context.Context, userID, listingID string) (*model.User, bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", ErrInvalidID, userID)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.User
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID, "wish_list": listingID},
		bson.M{"$pull": bson.M{"wish_list": listingID}},
		opts,
	).Decode(&updated)
	if err == nil {
		return &updated, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("failed to update wishlist: %w", err)
	}

	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID},
		bson.M{"$addToSet": bson.M{"wish_list": listingID}},
		opts,
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, ErrNotFound
		}
		return nil, false, fmt.Errorf("failed to update wishlist: %w", err)
	}

	return &updated, true, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, id string, update *model.UserUpdate) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	sets := bson.M{}
	if update.FirstName != nil {
		sets["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		sets["last_name"] = *update.LastName
	}
	if update.Email != nil {
		sets["email"] = *update.Email
	}
	if update.IsAdmin != nil {
		sets["is_admin"] = *update.IsAdmin
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.User
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": sets}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &updated, nil
}

func (r *mongoUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"password": 0}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *mongoUserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
