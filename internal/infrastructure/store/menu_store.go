package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"order-chatbot/internal/core/menu"
	"order-chatbot/internal/infrastructure/config"
)

// menuDocument 菜單品項的持久化形式
// 價格以 Decimal128 儲存，避免浮點誤差
type menuDocument struct {
	Key   string               `bson:"_id"`
	Name  string               `bson:"name"`
	Price primitive.Decimal128 `bson:"price"`
}

// MenuStore 菜單儲存，Orchestrator 每回合經由 LoadAll 取快照
type MenuStore struct {
	coll    *mongo.Collection
	timeout config.MongoConfig
}

// NewMenuStore 建立菜單儲存
func NewMenuStore(client *mongo.Client, cfg *config.MongoConfig) *MenuStore {
	return &MenuStore{
		coll:    client.Database(cfg.Database).Collection(menuCollection),
		timeout: *cfg,
	}
}

// LoadAll 載入全部菜單品項
func (s *MenuStore) LoadAll(ctx context.Context) ([]menu.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout.Timeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	defer cursor.Close(ctx)

	var items []menu.Item
	for cursor.Next(ctx) {
		var doc menuDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode menu item: %w", err)
		}
		item, err := doc.toItem()
		if err != nil {
			// 壞價格的品項跳過，不讓單一品項拖垮整份菜單
			continue
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("menu cursor error: %w", err)
	}

	return items, nil
}

// ReplaceAll 以新的菜單整份取代（後台管理用）
func (s *MenuStore) ReplaceAll(ctx context.Context, items []menu.Item) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout.Timeout)
	defer cancel()

	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear menu: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		doc, err := toDocument(item)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert menu: %w", err)
	}
	return nil
}

// Upsert 新增或更新單一品項
func (s *MenuStore) Upsert(ctx context.Context, item menu.Item) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout.Timeout)
	defer cancel()

	doc, err := toDocument(item)
	if err != nil {
		return err
	}

	_, err = s.coll.ReplaceOne(ctx,
		bson.M{"_id": doc.Key},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert menu item: %w", err)
	}
	return nil
}

// Delete 依品名刪除品項，回傳是否確有刪除
func (s *MenuStore) Delete(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout.Timeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": strings.ToLower(strings.TrimSpace(name))})
	if err != nil {
		return false, fmt.Errorf("failed to delete menu item: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (d menuDocument) toItem() (menu.Item, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return menu.Item{}, fmt.Errorf("invalid price for %q: %w", d.Name, err)
	}
	return menu.Item{Key: d.Key, DisplayName: d.Name, UnitPrice: price}, nil
}

func toDocument(item menu.Item) (menuDocument, error) {
	price, err := primitive.ParseDecimal128(item.UnitPrice.String())
	if err != nil {
		return menuDocument{}, fmt.Errorf("invalid price for %q: %w", item.DisplayName, err)
	}
	key := item.Key
	if key == "" {
		key = strings.ToLower(strings.TrimSpace(item.DisplayName))
	}
	return menuDocument{Key: key, Name: item.DisplayName, Price: price}, nil
}
