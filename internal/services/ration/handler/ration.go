package handler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
	"hostel-system/internal/notify"
)

var preparationTags = map[string]bool{
	"Breakfast":     true,
	"Lunch":         true,
	"Snacks":        true,
	"Dinner":        true,
	"Special Event": true,
	"General Stock": true,
}

// Store is the persistence surface of the request workflow. Approve and
// Reject only transition requests that are still Pending; Approve also
// applies the OUT movements for every line in the same storage
// transaction, so either all lines deduct or none do.
type Store interface {
	CreateRequest(ctx context.Context, req *models.RationRequest) error
	RequestByID(ctx context.Context, id uint) (models.RationRequest, error)
	RequestsByStatus(ctx context.Context, status string) ([]models.RationRequest, error)
	RequestsByChief(ctx context.Context, chiefID uint) ([]models.RationRequest, error)
	ApproveRequest(ctx context.Context, id uint, movements []models.RationTransaction) error
	RejectRequest(ctx context.Context, id uint) error
	ItemByID(ctx context.Context, id uint) (models.InventoryItem, error)
	ChiefByID(ctx context.Context, id uint) (models.KitchenChief, error)
}

type RationHandler struct {
	store  Store
	sender notify.Sender
}

func NewRationHandler(store Store, sender notify.Sender) *RationHandler {
	return &RationHandler{
		store:  store,
		sender: sender,
	}
}

type RequestLine struct {
	ItemID   uint            `json:"itemId"`
	Quantity decimal.Decimal `json:"quantity"`
}

type SubmitRequest struct {
	ChiefID        uint          `json:"chiefId"`
	PreparationFor string        `json:"preparationFor"`
	Items          []RequestLine `json:"items"`
}

// SubmitRequest creates a Pending request. The per-line stock check is
// advisory: stock may change before an admin approves, and approval
// re-validates against live stock.
func (s *RationHandler) SubmitRequest(ctx context.Context, req SubmitRequest) (models.RationRequest, error) {
	if len(req.Items) == 0 {
		return models.RationRequest{}, faults.Validation("at least one item is required")
	}
	if !preparationTags[req.PreparationFor] {
		return models.RationRequest{}, faults.Validation("preparationFor must be one of Breakfast, Lunch, Snacks, Dinner, Special Event, General Stock")
	}

	chief, err := s.store.ChiefByID(ctx, req.ChiefID)
	if err != nil {
		return models.RationRequest{}, err
	}

	lines := make([]models.RationRequestItem, 0, len(req.Items))
	for _, line := range req.Items {
		if !line.Quantity.IsPositive() {
			return models.RationRequest{}, faults.Validation("quantity for item %d must be greater than 0", line.ItemID)
		}
		item, err := s.store.ItemByID(ctx, line.ItemID)
		if err != nil {
			return models.RationRequest{}, err
		}
		if item.CurrentStock.LessThan(line.Quantity) {
			return models.RationRequest{}, &faults.InsufficientStockError{
				ItemID:    item.ID,
				ItemName:  item.ItemName,
				Unit:      item.Unit,
				Available: item.CurrentStock,
				Requested: line.Quantity,
			}
		}
		lines = append(lines, models.RationRequestItem{
			ItemID:   item.ID,
			Quantity: line.Quantity,
			Unit:     item.Unit,
		})
	}

	request := models.RationRequest{
		RequestedByID:  chief.ID,
		Status:         models.RequestPending,
		HostelName:     chief.HostelName,
		HostelCode:     chief.HostelCode,
		PreparationFor: req.PreparationFor,
		Items:          lines,
	}
	if err := s.store.CreateRequest(ctx, &request); err != nil {
		return models.RationRequest{}, err
	}
	return request, nil
}

func (s *RationHandler) ListPending(ctx context.Context) ([]models.RationRequest, error) {
	return s.store.RequestsByStatus(ctx, models.RequestPending)
}

func (s *RationHandler) ListHistory(ctx context.Context, chiefID uint) ([]models.RationRequest, error) {
	if _, err := s.store.ChiefByID(ctx, chiefID); err != nil {
		return nil, err
	}
	return s.store.RequestsByChief(ctx, chiefID)
}

// ApproveRequest re-validates every line against live stock and deducts
// them all in one storage transaction. A shortfall on any line aborts
// the whole approval and leaves every item untouched.
func (s *RationHandler) ApproveRequest(ctx context.Context, requestID uint) (models.RationRequest, error) {
	request, err := s.store.RequestByID(ctx, requestID)
	if err != nil {
		return models.RationRequest{}, err
	}
	if request.Status != models.RequestPending {
		return models.RationRequest{}, faults.NotFound("pending ration request", fmt.Sprint(requestID))
	}

	chief, err := s.store.ChiefByID(ctx, request.RequestedByID)
	if err != nil {
		return models.RationRequest{}, err
	}

	now := time.Now()
	purpose := request.PreparationFor
	actor := chief.Name
	movements := make([]models.RationTransaction, 0, len(request.Items))
	for _, line := range request.Items {
		movements = append(movements, models.RationTransaction{
			ItemID:          line.ItemID,
			Type:            models.TransactionOut,
			Quantity:        line.Quantity,
			Purpose:         &purpose,
			Chief:           &actor,
			TransactionDate: now,
		})
	}

	if err := s.store.ApproveRequest(ctx, requestID, movements); err != nil {
		return models.RationRequest{}, err
	}

	s.notifyChief(ctx, chief, fmt.Sprintf(
		"Hi %s. Your ration request #%d for %s has been APPROVED.",
		chief.Name, requestID, request.PreparationFor))

	return s.store.RequestByID(ctx, requestID)
}

func (s *RationHandler) RejectRequest(ctx context.Context, requestID uint) (models.RationRequest, error) {
	request, err := s.store.RequestByID(ctx, requestID)
	if err != nil {
		return models.RationRequest{}, err
	}
	if request.Status != models.RequestPending {
		return models.RationRequest{}, faults.NotFound("pending ration request", fmt.Sprint(requestID))
	}

	if err := s.store.RejectRequest(ctx, requestID); err != nil {
		return models.RationRequest{}, err
	}

	if chief, err := s.store.ChiefByID(ctx, request.RequestedByID); err == nil {
		s.notifyChief(ctx, chief, fmt.Sprintf(
			"Hi %s. Your ration request #%d for %s has been REJECTED.",
			chief.Name, requestID, request.PreparationFor))
	}

	return s.store.RequestByID(ctx, requestID)
}

// notifyChief is best-effort: the approval or rejection is already
// committed, so an SMS failure is only logged.
func (s *RationHandler) notifyChief(ctx context.Context, chief models.KitchenChief, body string) {
	if s.sender == nil || chief.Mobile == "" {
		return
	}
	if err := s.sender.Send(ctx, chief.Mobile, body); err != nil {
		log.Printf("SMS sending failed (request state already saved): %v", err)
	}
}
