package catalog

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on a MongoDB database, one collection per
// category.
type MongoStore struct {
	db *mongo.Database
}

var _ Store = (*MongoStore)(nil)

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (m *MongoStore) coll(s Schema) *mongo.Collection {
	return m.db.Collection(s.Collection)
}

func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	for _, s := range Categories {
		_, err := m.coll(s).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: s.IdentField, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return errors.Wrapf(err, "create %s ident index", s.Code)
		}
	}
	return nil
}

func (m *MongoStore) List(ctx context.Context, s Schema) ([]*Item, error) {
	cur, err := m.coll(s).Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrapf(err, "list %s items", s.Code)
	}
	var items []*Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, errors.Wrapf(err, "decode %s items", s.Code)
	}
	return items, nil
}

func (m *MongoStore) Get(ctx context.Context, s Schema, id primitive.ObjectID) (*Item, error) {
	var it Item
	err := m.coll(s).FindOne(ctx, bson.M{"_id": id}).Decode(&it)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s item", s.Code)
	}
	return &it, nil
}

func (m *MongoStore) FindByIdent(ctx context.Context, s Schema, value string) (*Item, error) {
	var it Item
	err := m.coll(s).FindOne(ctx, bson.M{s.IdentField: value}).Decode(&it)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find %s by %s", s.Code, s.IdentField)
	}
	return &it, nil
}

func (m *MongoStore) Create(ctx context.Context, s Schema, it *Item) error {
	res, err := m.coll(s).InsertOne(ctx, it)
	if mongo.IsDuplicateKeyError(err) {
		existing, ferr := m.FindByIdent(ctx, s, it.Ident(s))
		if ferr != nil {
			return errors.Wrapf(ferr, "resolve duplicate %s item", s.Code)
		}
		return &DuplicateError{Existing: existing}
	}
	if err != nil {
		return errors.Wrapf(err, "insert %s item", s.Code)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		it.ID = oid
	}
	return nil
}

func (m *MongoStore) Replace(ctx context.Context, s Schema, id primitive.ObjectID, it *Item) error {
	it.ID = id
	res, err := m.coll(s).ReplaceOne(ctx, bson.M{"_id": id}, it)
	if mongo.IsDuplicateKeyError(err) {
		// renamed to an identifying value another item already holds
		existing, ferr := m.FindByIdent(ctx, s, it.Ident(s))
		if ferr != nil {
			return errors.Wrapf(ferr, "resolve duplicate %s item", s.Code)
		}
		return &DuplicateError{Existing: existing}
	}
	if err != nil {
		return errors.Wrapf(err, "replace %s item", s.Code)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, s Schema, id primitive.ObjectID) error {
	_, err := m.coll(s).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "delete %s item", s.Code)
	}
	return nil
}

// ImageFiles returns the set of image filenames referenced by any document
// in any category. The orphan sweep job uses it to decide which files
// under the public images directory are still live.
func (m *MongoStore) ImageFiles(ctx context.Context) (map[string]struct{}, error) {
	files := make(map[string]struct{})
	for _, s := range Categories {
		values, err := m.coll(s).Distinct(ctx, "img.file", bson.D{})
		if err != nil {
			return nil, errors.Wrapf(err, "distinct %s image files", s.Code)
		}
		for _, v := range values {
			if name, ok := v.(string); ok && name != "" {
				files[name] = struct{}{}
			}
		}
	}
	return files, nil
}

// Count returns the number of documents in a category collection.
func (m *MongoStore) Count(ctx context.Context, s Schema) (int64, error) {
	n, err := m.coll(s).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrapf(err, "count %s items", s.Code)
	}
	return n, nil
}
