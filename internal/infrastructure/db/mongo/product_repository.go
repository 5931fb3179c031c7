package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techone/pos-api/internal/core/domain"
)

const productCollection = "products"

// ProductRepository reads the product master. The product code is the
// document's _id, matching the master's natural key.
type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productCollection)}
}

type productDoc struct {
	Code      string `bson:"_id"`
	Name      string `bson:"name"`
	UnitPrice int    `bson:"unit_price"`
}

func (r *ProductRepository) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": code}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &domain.Product{Code: doc.Code, Name: doc.Name, UnitPrice: doc.UnitPrice}, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cur.Close(ctx)

	var products []domain.Product
	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, domain.Product{Code: doc.Code, Name: doc.Name, UnitPrice: doc.UnitPrice})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
