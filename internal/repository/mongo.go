package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/greenleaf/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

type productDocument struct {
	ID       int64  `bson:"_id"`
	Name     string `bson:"name"`
	Price    int64  `bson:"price"`
	Category string `bson:"category"`
	Image    string `bson:"image"`
	Position int    `bson:"position"`
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database, collection string) *MongoRepository {
	return &MongoRepository{collection: db.Collection(collection)}
}

func (m *MongoRepository) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, domain.Product{
			ID:       d.ID,
			Name:     d.Name,
			Price:    d.Price,
			Category: d.Category,
			Image:    d.Image,
		})
	}
	return products, nil
}

func (m *MongoRepository) CountProducts(ctx context.Context) (int64, error) {
	n, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// SeedProducts upserts products keeping their slice order as position.
func (m *MongoRepository) SeedProducts(ctx context.Context, products []domain.Product) error {
	for i, p := range products {
		doc := productDocument{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
			Image:    p.Image,
			Position: i + 1,
		}
		filter := bson.M{"_id": p.ID}
		if _, err := m.collection.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true)); err != nil {
			return fmt.Errorf("failed to upsert product %d: %w", p.ID, err)
		}
	}
	return nil
}
