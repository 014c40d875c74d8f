package compare

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	colProduct = "product"
	colPrices  = "priceentry"
	colSearch  = "searchrecord"
)

// MongoStore talks to the same collections the original deployment used.
// Product uniqueness is enforced by a unique index on normalized_name.
type MongoStore struct {
	db *mongo.Database
}

func OpenMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	s := &MongoStore{db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(colProduct).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "normalized_name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Kind() string { return "mongo" }

func (s *MongoStore) FindProductByKey(ctx context.Context, key string) (Product, bool, error) {
	var p Product
	err := s.db.Collection(colProduct).FindOne(ctx, bson.M{"normalized_name": key}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *MongoStore) UpsertProduct(ctx context.Context, p Product) (Product, bool, error) {
	p.ID = "p_" + uuid.NewString()

	// $setOnInsert makes the insert idempotent under the unique index: a
	// concurrent winner's document comes back untouched.
	res := s.db.Collection(colProduct).FindOneAndUpdate(ctx,
		bson.M{"normalized_name": p.NormalizedName},
		bson.M{"$setOnInsert": p},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var out Product
	if err := res.Decode(&out); err != nil {
		return Product{}, false, err
	}
	return out, out.ID == p.ID, nil
}

func (s *MongoStore) ListPrices(ctx context.Context, productID string) ([]PriceEntry, error) {
	cur, err := s.db.Collection(colPrices).Find(ctx, bson.M{"product_id": productID})
	if err != nil {
		return nil, err
	}

	out := make([]PriceEntry, 0, len(Platforms))
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) InsertPrices(ctx context.Context, entries []PriceEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]any, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			e.ID = "pe_" + uuid.NewString()
		}
		docs = append(docs, e)
	}

	_, err := s.db.Collection(colPrices).InsertMany(ctx, docs)
	return err
}

func (s *MongoStore) InsertSearch(ctx context.Context, rec SearchRecord) error {
	if rec.ID == "" {
		rec.ID = "s_" + uuid.NewString()
	}

	_, err := s.db.Collection(colSearch).InsertOne(ctx, rec)
	return err
}

func (s *MongoStore) RecentSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.db.Collection(colSearch).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	out := make([]SearchRecord, 0, limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Collections(ctx context.Context) ([]string, error) {
	return s.db.ListCollectionNames(ctx, bson.D{})
}
