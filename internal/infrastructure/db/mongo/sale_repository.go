package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techone/pos-api/internal/core/domain"
)

const saleCollection = "sales"

// SaleRepository persists sales as single documents with the detail lines
// embedded, so a sale and its lines are written atomically.
type SaleRepository struct {
	coll *mongo.Collection
}

func NewSaleRepository(db *mongo.Database) *SaleRepository {
	return &SaleRepository{coll: db.Collection(saleCollection)}
}

type saleLineDoc struct {
	Code      string `bson:"code"`
	Name      string `bson:"name"`
	UnitPrice int    `bson:"unit_price"`
	Qty       int    `bson:"qty"`
	LineTotal int    `bson:"line_total"`
	TaxCD     string `bson:"tax_cd"`
	Custom    bool   `bson:"custom,omitempty"`
}

type saleDoc struct {
	ID          string        `bson:"_id"`
	CreatedAt   time.Time     `bson:"created_at"`
	TTLAmtExTax int           `bson:"ttl_amt_ex_tax"`
	TaxAmt      int           `bson:"tax_amt"`
	TotalAmt    int           `bson:"total_amt"`
	ClerkCD     string        `bson:"clerk_cd"`
	StoreCD     string        `bson:"store_cd"`
	PosID       string        `bson:"pos_id"`
	Lines       []saleLineDoc `bson:"lines"`
}

func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	if _, err := r.coll.InsertOne(ctx, toSaleDoc(sale)); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepository) List(ctx context.Context, limit int) ([]domain.Sale, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer cur.Close(ctx)

	var sales []domain.Sale
	for cur.Next(ctx) {
		var doc saleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode sale: %w", err)
		}
		sales = append(sales, fromSaleDoc(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, nil
}

func (r *SaleRepository) Summary(ctx context.Context) (*domain.SalesSummary, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "ttl_amt_ex_tax", Value: bson.D{{Key: "$sum", Value: "$ttl_amt_ex_tax"}}},
			{Key: "tax_amt", Value: bson.D{{Key: "$sum", Value: "$tax_amt"}}},
			{Key: "total_amt", Value: bson.D{{Key: "$sum", Value: "$total_amt"}}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales: %w", err)
	}
	defer cur.Close(ctx)

	summary := &domain.SalesSummary{}
	if cur.Next(ctx) {
		var doc struct {
			Count       int64 `bson:"count"`
			TTLAmtExTax int64 `bson:"ttl_amt_ex_tax"`
			TaxAmt      int64 `bson:"tax_amt"`
			TotalAmt    int64 `bson:"total_amt"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode summary: %w", err)
		}
		summary.Count = doc.Count
		summary.TTLAmtExTax = doc.TTLAmtExTax
		summary.TaxAmt = doc.TaxAmt
		summary.TotalAmt = doc.TotalAmt
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}
	return summary, nil
}

func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func toSaleDoc(s *domain.Sale) saleDoc {
	lines := make([]saleLineDoc, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = saleLineDoc(l)
	}
	return saleDoc{
		ID:          s.ID,
		CreatedAt:   s.CreatedAt,
		TTLAmtExTax: s.TTLAmtExTax,
		TaxAmt:      s.TaxAmt,
		TotalAmt:    s.TotalAmt,
		ClerkCD:     s.ClerkCD,
		StoreCD:     s.StoreCD,
		PosID:       s.PosID,
		Lines:       lines,
	}
}

func fromSaleDoc(d saleDoc) domain.Sale {
	lines := make([]domain.SaleLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = domain.SaleLine(l)
	}
	return domain.Sale{
		ID:          d.ID,
		CreatedAt:   d.CreatedAt,
		TTLAmtExTax: d.TTLAmtExTax,
		TaxAmt:      d.TaxAmt,
		TotalAmt:    d.TotalAmt,
		ClerkCD:     d.ClerkCD,
		StoreCD:     d.StoreCD,
		PosID:       d.PosID,
		Lines:       lines,
	}
}
