package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agrivista/api-go/models"
)

var mongoCollections = map[string]string{
	KindYield:      "yielddetails",
	KindFertilizer: "fertilizerdetails",
	KindCrop:       "datamodels",
}

// MongoHistory keeps prediction history as documents, one collection per kind.
type MongoHistory struct {
	db *mongo.Database
}

func NewMongoHistory(db *mongo.Database) *MongoHistory {
	return &MongoHistory{db: db}
}

// EnsureIndexes creates the (id, createdAt) index used by per-user listings.
func (m *MongoHistory) EnsureIndexes(ctx context.Context) error {
	for _, name := range mongoCollections {
		_, err := m.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "id", Value: 1}, {Key: "createdAt", Value: -1}},
		})
		if err != nil {
			return errors.Wrapf(err, "create index on %s", name)
		}
	}
	return nil
}

func mongoAdd(ctx context.Context, coll *mongo.Collection, rec interface{}) error {
	_, err := coll.InsertOne(ctx, rec)
	return errors.Wrapf(err, "insert into %s", coll.Name())
}

func mongoList[T any](ctx context.Context, coll *mongo.Collection, userID uint, page Page) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if page.Limit > 0 {
		opts.SetSkip(int64(page.Offset)).SetLimit(int64(page.Limit))
	}
	cursor, err := coll.Find(ctx, bson.M{"id": userID}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "find in %s", coll.Name())
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(err, "decode %s", coll.Name())
	}
	return out, nil
}

func (m *MongoHistory) coll(kind string) *mongo.Collection {
	return m.db.Collection(mongoCollections[kind])
}

func (m *MongoHistory) AddYield(ctx context.Context, rec *models.YieldDetails) error {
	stamp(&rec.CreatedAt)
	return mongoAdd(ctx, m.coll(KindYield), rec)
}

func (m *MongoHistory) ListYield(ctx context.Context, userID uint, page Page) ([]models.YieldDetails, error) {
	return mongoList[models.YieldDetails](ctx, m.coll(KindYield), userID, page)
}

func (m *MongoHistory) AddFertilizer(ctx context.Context, rec *models.FertilizerDetails) error {
	stamp(&rec.CreatedAt)
	return mongoAdd(ctx, m.coll(KindFertilizer), rec)
}

func (m *MongoHistory) ListFertilizer(ctx context.Context, userID uint, page Page) ([]models.FertilizerDetails, error) {
	return mongoList[models.FertilizerDetails](ctx, m.coll(KindFertilizer), userID, page)
}

func (m *MongoHistory) AddCrop(ctx context.Context, rec *models.CropDetails) error {
	stamp(&rec.CreatedAt)
	return mongoAdd(ctx, m.coll(KindCrop), rec)
}

func (m *MongoHistory) ListCrop(ctx context.Context, userID uint, page Page) ([]models.CropDetails, error) {
	return mongoList[models.CropDetails](ctx, m.coll(KindCrop), userID, page)
}

func (m *MongoHistory) Count(ctx context.Context, kind string) (int64, error) {
	name, ok := mongoCollections[kind]
	if !ok {
		return 0, errors.Errorf("unknown history kind %q", kind)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	n, err := m.db.Collection(name).EstimatedDocumentCount(ctx)
	return n, errors.Wrapf(err, "count %s", name)
}
