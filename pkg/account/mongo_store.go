package account

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a Store backed by the "users" collection.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: db.Collection(usersCollection)}
}

func (s *mongoStore) Get(ctx context.Context, id string) (*Account, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	var acc Account
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&acc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrLookupFailed, err)
	}
	return &acc, nil
}

func (s *mongoStore) GetByStripeCustomerID(ctx context.Context, customerID string) (*Account, error) {
	if customerID == "" {
		return nil, ErrNotFound
	}

	var acc Account
	err := s.coll.FindOne(ctx, bson.M{"stripe_customer_id": customerID}).Decode(&acc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrLookupFailed, err)
	}
	return &acc, nil
}

func (s *mongoStore) Save(ctx context.Context, acc *Account) error {
	if acc == nil || acc.ID == "" {
		return ErrMissingID
	}

	acc.UpdatedAt = time.Now().UTC()
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = acc.UpdatedAt
	}

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": acc.ID},
		acc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}
