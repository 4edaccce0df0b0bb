package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	contactserrors "roost/internal/contacts/errors"
	"roost/pkg/config"
	"roost/pkg/model"
)

const CollectionName = "Contacts"

type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Contact, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
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

func (r *mongoContactRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	contact.Status = model.ContactPending
	contact.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, contact)
	if err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		contact.ID = oid.Hex()
	}
	return nil
}

func (r *mongoContactRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Contact, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact submissions: %w", err)
	}
	defer cursor.Close(ctx)

	contacts := make([]*model.Contact, 0)
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contact submissions: %w", err)
	}
	return contacts, nil
}

func (r *mongoContactRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Contact, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, contactserrors.ErrInvalidID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var contact model.Contact
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, contactserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update contact %s: %w", id, err)
	}

	return &contact, nil
}

func (r *mongoContactRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return contactserrors.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return contactserrors.ErrNotFound
	}
	return nil
}

func (r *mongoContactRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count contact submissions: %w", err)
	}
	return count, nil
}
