package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
)

const (
	ITEMS_CACHE_KEY = "rations:items"
	CACHE_TTL_SHORT = 5 * time.Minute
)

// Store is the persistence surface the ledger needs. ApplyMovements is
// the only write path for stock levels: it appends every transaction
// and adjusts the matching items in one storage transaction, refusing
// any OUT movement that live stock does not cover.
type Store interface {
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	ItemByID(ctx context.Context, id uint) (models.InventoryItem, error)
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	TransactionsByItem(ctx context.Context, itemID uint) ([]models.RationTransaction, error)
	ApplyMovements(ctx context.Context, movements []models.RationTransaction) error
}

type InventoryHandler struct {
	store Store
	redis *redis.Client
}

func NewInventoryHandler(store Store, redisClient *redis.Client) *InventoryHandler {
	return &InventoryHandler{
		store: store,
		redis: redisClient,
	}
}

func (s *InventoryHandler) invalidateItemCaches(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, ITEMS_CACHE_KEY)
}

type AddItemRequest struct {
	ItemName string `json:"itemName"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
}

func (s *InventoryHandler) AddItem(ctx context.Context, req AddItemRequest) (models.InventoryItem, error) {
	if req.ItemName == "" || req.Unit == "" || req.Category == "" {
		return models.InventoryItem{}, faults.Validation("item name, unit and category are required")
	}

	item := models.InventoryItem{
		ItemName:     req.ItemName,
		Unit:         req.Unit,
		Category:     req.Category,
		CurrentStock: decimal.Zero,
	}
	if err := s.store.CreateItem(ctx, &item); err != nil {
		return models.InventoryItem{}, err
	}

	s.invalidateItemCaches(ctx)
	return item, nil
}

func (s *InventoryHandler) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, ITEMS_CACHE_KEY).Result(); err == nil {
			var items []models.InventoryItem
			if json.Unmarshal([]byte(cached), &items) == nil {
				return items, nil
			}
		}
	}

	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(items); err == nil {
			_ = s.redis.Set(ctx, ITEMS_CACHE_KEY, payload, CACHE_TTL_SHORT)
		}
	}
	return items, nil
}

type IncomingRequest struct {
	ItemID   uint            `json:"itemId"`
	Quantity decimal.Decimal `json:"quantity"`
	Source   string          `json:"source"`
}

func (s *InventoryHandler) RecordIncoming(ctx context.Context, req IncomingRequest) (models.InventoryItem, error) {
	if req.ItemID == 0 || req.Source == "" {
		return models.InventoryItem{}, faults.Validation("item id, quantity and source are required")
	}
	if !req.Quantity.IsPositive() {
		return models.InventoryItem{}, faults.Validation("quantity must be greater than 0")
	}

	source := req.Source
	movement := models.RationTransaction{
		ItemID:          req.ItemID,
		Type:            models.TransactionIn,
		Quantity:        req.Quantity,
		Source:          &source,
		TransactionDate: time.Now(),
	}
	if err := s.store.ApplyMovements(ctx, []models.RationTransaction{movement}); err != nil {
		return models.InventoryItem{}, err
	}

	s.invalidateItemCaches(ctx)
	return s.store.ItemByID(ctx, req.ItemID)
}

type OutgoingRequest struct {
	ItemID   uint            `json:"itemId"`
	Quantity decimal.Decimal `json:"quantity"`
	Purpose  string          `json:"purpose"`
	Chief    string          `json:"chief"`
}

func (s *InventoryHandler) RecordOutgoing(ctx context.Context, req OutgoingRequest) (models.InventoryItem, error) {
	if req.ItemID == 0 || req.Purpose == "" {
		return models.InventoryItem{}, faults.Validation("item id, quantity and purpose are required")
	}
	if !req.Quantity.IsPositive() {
		return models.InventoryItem{}, faults.Validation("quantity must be greater than 0")
	}

	purpose := req.Purpose
	movement := models.RationTransaction{
		ItemID:          req.ItemID,
		Type:            models.TransactionOut,
		Quantity:        req.Quantity,
		Purpose:         &purpose,
		TransactionDate: time.Now(),
	}
	if req.Chief != "" {
		chief := req.Chief
		movement.Chief = &chief
	}
	if err := s.store.ApplyMovements(ctx, []models.RationTransaction{movement}); err != nil {
		return models.InventoryItem{}, err
	}

	s.invalidateItemCaches(ctx)
	return s.store.ItemByID(ctx, req.ItemID)
}

type BulkIncomingLine struct {
	ItemID   uint            `json:"itemId"`
	Quantity decimal.Decimal `json:"quantity"`
}

type BulkIncomingRequest struct {
	Source string             `json:"source"`
	Items  []BulkIncomingLine `json:"items"`
}

// BulkIncoming applies the whole batch or none of it. Lines referencing
// unknown items are reported together before anything is written.
func (s *InventoryHandler) BulkIncoming(ctx context.Context, req BulkIncomingRequest) error {
	if len(req.Items) == 0 || req.Source == "" {
		return faults.Validation("a list of items and a source are required")
	}

	var unknown []string
	now := time.Now()
	movements := make([]models.RationTransaction, 0, len(req.Items))
	for _, line := range req.Items {
		if !line.Quantity.IsPositive() {
			return faults.Validation("quantity for item %d must be greater than 0", line.ItemID)
		}
		if _, err := s.store.ItemByID(ctx, line.ItemID); err != nil {
			unknown = append(unknown, fmt.Sprint(line.ItemID))
			continue
		}
		source := req.Source
		movements = append(movements, models.RationTransaction{
			ItemID:          line.ItemID,
			Type:            models.TransactionIn,
			Quantity:        line.Quantity,
			Source:          &source,
			TransactionDate: now,
		})
	}
	if len(unknown) > 0 {
		return faults.Validation("unknown inventory items: %v", unknown)
	}

	if err := s.store.ApplyMovements(ctx, movements); err != nil {
		return err
	}

	s.invalidateItemCaches(ctx)
	return nil
}

func (s *InventoryHandler) GetHistory(ctx context.Context, itemID uint) ([]models.RationTransaction, error) {
	if _, err := s.store.ItemByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.store.TransactionsByItem(ctx, itemID)
}
