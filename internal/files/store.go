package files

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore is a mongo-backed file metadata repository.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	if collection == "" {
		collection = "files"
	}
	return &MongoStore{coll: db.Collection(collection)}
}

// EnsureIndexes creates the indexes the listing queries depend on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "sharedWith", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create file indexes: %w", err)
	}
	return nil
}

// Insert stores a new metadata record, assigning its id and timestamps.
func (s *MongoStore) Insert(ctx context.Context, rec *Record) error {
	now := time.Now()
	if rec.ID.IsZero() {
		rec.ID = bson.NewObjectID()
	}
	if rec.SharedWith == nil {
		rec.SharedWith = []string{}
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert file record: %w", err)
	}
	return nil
}

// FindByID returns a single record by its id.
func (s *MongoStore) FindByID(ctx context.Context, id bson.ObjectID) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find file by id: %w", err)
	}
	return &rec, nil
}

// ListVisible returns the records the given account may see: files it owns
// plus files shared with its email address.
func (s *MongoStore) ListVisible(ctx context.Context, accountID, email string, params ListParams) ([]Record, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"ownerId": accountID},
			bson.M{"sharedWith": email},
		},
	}
	if params.Category != "" {
		if !params.Category.Valid() {
			return nil, ErrInvalidCategory
		}
		filter["category"] = params.Category
	}
	if params.Search != "" {
		filter["name"] = bson.M{
			"$regex":   regexp.QuoteMeta(params.Search),
			"$options": "i",
		}
	}

	opts := options.Find().SetSort(sortSpec(params.Sort))
	if params.Limit > 0 {
		opts = opts.SetLimit(params.Limit)
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	records := []Record{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode file records: %w", err)
	}
	return records, nil
}

func sortSpec(sort string) bson.D {
	switch sort {
	case SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}}
	case SortNameAsc:
		return bson.D{{Key: "name", Value: 1}}
	case SortNameDesc:
		return bson.D{{Key: "name", Value: -1}}
	case SortSizeLargest:
		return bson.D{{Key: "size", Value: -1}}
	case SortSizeLowest:
		return bson.D{{Key: "size", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// UpdateName renames a record.
func (s *MongoStore) UpdateName(ctx context.Context, id bson.ObjectID, name string) error {
	return s.setFields(ctx, id, bson.M{"name": name})
}

// UpdateSharedWith replaces the full share list of a record.
func (s *MongoStore) UpdateSharedWith(ctx context.Context, id bson.ObjectID, emails []string) error {
	if emails == nil {
		emails = []string{}
	}
	return s.setFields(ctx, id, bson.M{"sharedWith": emails})
}

func (s *MongoStore) setFields(ctx context.Context, id bson.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update file record: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record.
func (s *MongoStore) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete file record: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Summarize aggregates per-category usage for the files an account owns.
func (s *MongoStore) Summarize(ctx context.Context, accountID string) ([]CategoryUsage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ownerId": accountID}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$category",
			"size":   bson.M{"$sum": "$size"},
			"count":  bson.M{"$sum": 1},
			"latest": bson.M{"$max": "$updatedAt"},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("summarize files: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	usage := []CategoryUsage{}
	if err := cursor.All(ctx, &usage); err != nil {
		return nil, fmt.Errorf("decode file summary: %w", err)
	}
	return usage, nil
}
