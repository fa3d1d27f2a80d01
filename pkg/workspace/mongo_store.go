package workspace

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const workspacesCollection = "workspaces"

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a Store backed by the "workspaces" collection.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: db.Collection(workspacesCollection)}
}

func (s *mongoStore) Get(ctx context.Context, id string) (*Workspace, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	var ws Workspace
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ws)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

func (s *mongoStore) ListByUser(ctx context.Context, userID string) ([]Workspace, error) {
	cursor, err := s.coll.Find(ctx,
		bson.M{"collaborators.user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []Workspace
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *mongoStore) Save(ctx context.Context, ws *Workspace) error {
	if ws == nil || ws.ID == "" {
		return ErrMissingID
	}

	ws.UpdatedAt = time.Now().UTC()
	if ws.CreatedAt.IsZero() {
		ws.CreatedAt = ws.UpdatedAt
	}

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": ws.ID},
		ws,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *mongoStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
