package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"order-chatbot/internal/core/order"
	"order-chatbot/internal/infrastructure/config"
	"order-chatbot/internal/pkg/common"
)

// orderDocument 廚房訂單的持久化形式
type orderDocument struct {
	ID         string               `bson:"_id"`
	ClientName string               `bson:"client_name"`
	Items      []order.Item         `bson:"items"`
	Total      primitive.Decimal128 `bson:"total"`
	Details    string               `bson:"details"`
	Status     string               `bson:"status"`
	CreatedAt  time.Time            `bson:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at"`
}

// OrderStore 廚房訂單儲存，同時作為 Orchestrator 的 OrderSink
type OrderStore struct {
	coll *mongo.Collection
	cfg  config.MongoConfig
}

// NewOrderStore 建立訂單儲存
func NewOrderStore(client *mongo.Client, cfg *config.MongoConfig) *OrderStore {
	return &OrderStore{
		coll: client.Database(cfg.Database).Collection(orderCollection),
		cfg:  *cfg,
	}
}

// Persist 寫入最終訂單並回傳訂單編號
func (s *OrderStore) Persist(ctx context.Context, o order.FinalOrder) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	total, err := primitive.ParseDecimal128(o.Total.String())
	if err != nil {
		return "", fmt.Errorf("invalid order total: %w", err)
	}

	doc := orderDocument{
		ID:         o.ID,
		ClientName: o.ClientName,
		Items:      o.Items,
		Total:      total,
		Details:    o.Details,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.CreatedAt,
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert order: %w", err)
	}
	return o.ID, nil
}

// List 依狀態列出訂單，status 為空時列出全部（新單在前）
func (s *OrderStore) List(ctx context.Context, status order.Status) ([]order.FinalOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}

	cursor, err := s.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []order.FinalOrder
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}
		o, err := doc.toOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("order cursor error: %w", err)
	}

	return orders, nil
}

// Get 取得單筆訂單
func (s *OrderStore) Get(ctx context.Context, id string) (order.FinalOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var doc orderDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return order.FinalOrder{}, common.ErrOrderNotFound
	}
	if err != nil {
		return order.FinalOrder{}, fmt.Errorf("failed to get order: %w", err)
	}
	return doc.toOrder()
}

// UpdateStatus 更新訂單狀態，非法轉移回傳 ErrInvalidTransition
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, to order.Status) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !current.Status.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, current.Status, to)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(current.Status)},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		// 狀態在讀取與更新之間被別人改走
		return common.ErrConflict
	}
	return nil
}

func (d orderDocument) toOrder() (order.FinalOrder, error) {
	total, err := decimal.NewFromString(d.Total.String())
	if err != nil {
		return order.FinalOrder{}, fmt.Errorf("invalid total for order %s: %w", d.ID, err)
	}
	return order.FinalOrder{
		ID:         d.ID,
		ClientName: d.ClientName,
		Items:      d.Items,
		Total:      total,
		Details:    d.Details,
		Status:     order.Status(d.Status),
		CreatedAt:  d.CreatedAt,
	}, nil
}
