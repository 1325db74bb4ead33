package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Store is a mongo-backed profile repository.
type Store struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database, collection string) *Store {
	if collection == "" {
		collection = "users"
	}
	return &Store{coll: db.Collection(collection)}
}

// EnsureIndexes creates the unique email index. The index is what turns a
// concurrent double-create into a detectable duplicate-key failure.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "accountId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create profile indexes: %w", err)
	}
	return nil
}

// FindByEmail returns the record for an exact email match.
func (s *Store) FindByEmail(ctx context.Context, email string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find profile by email: %w", err)
	}
	return &rec, nil
}

// FindByAccountID returns the record for an exact account-id match.
func (s *Store) FindByAccountID(ctx context.Context, accountID string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"accountId": accountID}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find profile by account id: %w", err)
	}
	return &rec, nil
}

// Create inserts a new record. A unique-constraint violation is reported as
// ErrDuplicateEmail so callers can run their race recovery.
func (s *Store) Create(ctx context.Context, rec *Record) error {
	now := time.Now()
	if rec.ID.IsZero() {
		rec.ID = bson.NewObjectID()
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// UpdateAccountID replaces the cached account id on an existing record.
func (s *Store) UpdateAccountID(ctx context.Context, id RecordID, accountID string) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"accountId": accountID,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("update profile account id: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
