package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// seedProducts is the demo stationery catalog loaded on first start.
var seedProducts = []productDoc{
	{Code: "4901234567890", Name: "万年筆 TECH ONE Signature 14K", UnitPrice: 28500},
	{Code: "4902345678901", Name: "ボールペン TECH ONE Classic Black", UnitPrice: 12800},
	{Code: "4903456789012", Name: "シャープペンシル TECH ONE Precision 0.5mm", UnitPrice: 9800},
	{Code: "4904567890123", Name: "ノートブック TECH ONE Premium A5 レザー装丁", UnitPrice: 6500},
	{Code: "4905678901234", Name: "レターセット TECH ONE 便箋20枚 封筒10枚", UnitPrice: 3200},
	{Code: "4906789012345", Name: "ペンケース イタリアンレザー ブラウン", UnitPrice: 8900},
	{Code: "4907890123456", Name: "デスクマット 本革 60x40cm ダークブラウン", UnitPrice: 15800},
	{Code: "4908901234567", Name: "ペーパーウェイト 真鍮製 幾何学デザイン", UnitPrice: 7400},
	{Code: "4909012345678", Name: "レターオープナー ステンレス製 鏡面仕上げ", UnitPrice: 4200},
	{Code: "4910123456789", Name: "インクボトル TECH ONE ブラック 50ml", UnitPrice: 2800},
	{Code: "4911234567890", Name: "万年筆ケース 1本用 木製ボックス", UnitPrice: 5600},
	{Code: "4912345678901", Name: "ブックスタンド 真鍮 アンティーク仕上げ", UnitPrice: 11200},
	{Code: "4969757165713", Name: "おえかきちょう", UnitPrice: 200},
}

// SeedProducts inserts the demo catalog when the products collection is empty.
// Idempotent across restarts.
func SeedProducts(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(productCollection)

	n, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return nil
	}

	docs := make([]any, len(seedProducts))
	for i, p := range seedProducts {
		docs[i] = p
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	return nil
}
