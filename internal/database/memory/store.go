// Package memory implements the service-layer store interfaces on
// plain maps behind one mutex. It backs local development without
// postgres and doubles as the test double for the service handlers;
// every atomicity guarantee of the gorm store holds here because all
// multi-step mutations run under the lock.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
)

type Store struct {
	mu sync.Mutex

	items        map[uint]models.InventoryItem
	transactions []models.RationTransaction
	requests     map[uint]models.RationRequest
	cycles       map[uint]models.KitCycle
	collections  map[uint]models.KitCollection
	tokenIndex   map[string]uint
	admins       map[uint]models.Admin
	chiefs       map[uint]models.KitchenChief
	students     map[uint]models.Student

	itemSeq, txSeq, requestSeq, lineSeq, cycleSeq, collectionSeq, adminSeq, chiefSeq, studentSeq uint
}

func NewStore() *Store {
	return &Store{
		items:       make(map[uint]models.InventoryItem),
		requests:    make(map[uint]models.RationRequest),
		cycles:      make(map[uint]models.KitCycle),
		collections: make(map[uint]models.KitCollection),
		tokenIndex:  make(map[string]uint),
		admins:      make(map[uint]models.Admin),
		chiefs:      make(map[uint]models.KitchenChief),
		students:    make(map[uint]models.Student),
	}
}

// --- Inventory ---

func (s *Store) CreateItem(_ context.Context, item *models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.ItemName == item.ItemName {
			return faults.Conflict("inventory item", "name")
		}
	}
	s.itemSeq++
	item.ID = s.itemSeq
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	s.items[item.ID] = *item
	return nil
}

func (s *Store) ItemByID(_ context.Context, id uint) (models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemByIDLocked(id)
}

func (s *Store) itemByIDLocked(id uint) (models.InventoryItem, error) {
	item, ok := s.items[id]
	if !ok {
		return models.InventoryItem{}, faults.NotFound("inventory item", fmt.Sprint(id))
	}
	return item, nil
}

func (s *Store) ListItems(_ context.Context) ([]models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.InventoryItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].ItemName < items[j].ItemName
	})
	return items, nil
}

func (s *Store) TransactionsByItem(_ context.Context, itemID uint) ([]models.RationTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.RationTransaction
	for _, tx := range s.transactions {
		if tx.ItemID == itemID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TransactionDate.After(out[j].TransactionDate)
	})
	return out, nil
}

func (s *Store) ApplyMovements(_ context.Context, movements []models.RationTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyMovementsLocked(movements)
}

// applyMovementsLocked validates the whole batch against a scratch copy
// of the stock levels before committing anything, so a failing line
// leaves every item untouched.
func (s *Store) applyMovementsLocked(movements []models.RationTransaction) error {
	scratch := make(map[uint]models.InventoryItem, len(movements))
	for _, mv := range movements {
		item, ok := scratch[mv.ItemID]
		if !ok {
			var err error
			item, err = s.itemByIDLocked(mv.ItemID)
			if err != nil {
				return err
			}
		}
		switch mv.Type {
		case models.TransactionIn:
			item.CurrentStock = item.CurrentStock.Add(mv.Quantity)
		case models.TransactionOut:
			if item.CurrentStock.LessThan(mv.Quantity) {
				return &faults.InsufficientStockError{
					ItemID:    item.ID,
					ItemName:  item.ItemName,
					Unit:      item.Unit,
					Available: item.CurrentStock,
					Requested: mv.Quantity,
				}
			}
			item.CurrentStock = item.CurrentStock.Sub(mv.Quantity)
		default:
			return faults.Validation("invalid transaction type %q", mv.Type)
		}
		scratch[mv.ItemID] = item
	}

	now := time.Now()
	for id, item := range scratch {
		item.UpdatedAt = now
		s.items[id] = item
	}
	for _, mv := range movements {
		s.txSeq++
		mv.ID = s.txSeq
		mv.Item = nil
		s.transactions = append(s.transactions, mv)
	}
	return nil
}

// --- Ration requests ---

func (s *Store) CreateRequest(_ context.Context, req *models.RationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requestSeq++
	req.ID = s.requestSeq
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	for i := range req.Items {
		s.lineSeq++
		req.Items[i].ID = s.lineSeq
		req.Items[i].RequestID = req.ID
	}
	s.requests[req.ID] = cloneRequest(*req)
	return nil
}

func (s *Store) RequestByID(_ context.Context, id uint) (models.RationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return models.RationRequest{}, faults.NotFound("ration request", fmt.Sprint(id))
	}
	return s.populateRequestLocked(req), nil
}

func (s *Store) RequestsByStatus(_ context.Context, status string) ([]models.RationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.RationRequest
	for _, req := range s.requests {
		if req.Status == status {
			out = append(out, s.populateRequestLocked(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) RequestsByChief(_ context.Context, chiefID uint) ([]models.RationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.RationRequest
	for _, req := range s.requests {
		if req.RequestedByID == chiefID {
			out = append(out, s.populateRequestLocked(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ApproveRequest(_ context.Context, id uint, movements []models.RationTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok || req.Status != models.RequestPending {
		return faults.NotFound("pending ration request", fmt.Sprint(id))
	}
	if err := s.applyMovementsLocked(movements); err != nil {
		return err
	}
	req.Status = models.RequestApproved
	req.UpdatedAt = time.Now()
	s.requests[id] = req
	return nil
}

func (s *Store) RejectRequest(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok || req.Status != models.RequestPending {
		return faults.NotFound("pending ration request", fmt.Sprint(id))
	}
	req.Status = models.RequestRejected
	req.UpdatedAt = time.Now()
	s.requests[id] = req
	return nil
}

func (s *Store) populateRequestLocked(req models.RationRequest) models.RationRequest {
	out := cloneRequest(req)
	for i := range out.Items {
		if item, ok := s.items[out.Items[i].ItemID]; ok {
			item := item
			out.Items[i].Item = &item
		}
	}
	if chief, ok := s.chiefs[out.RequestedByID]; ok {
		chief := chief
		out.RequestedBy = &chief
	}
	return out
}

func cloneRequest(req models.RationRequest) models.RationRequest {
	out := req
	out.Items = make([]models.RationRequestItem, len(req.Items))
	copy(out.Items, req.Items)
	for i := range out.Items {
		out.Items[i].Item = nil
	}
	out.RequestedBy = nil
	return out
}
