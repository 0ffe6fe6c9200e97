package handler

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel-system/internal/database/memory"
	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
)

func seedChief(t *testing.T, store *memory.Store) models.KitchenChief {
	t.Helper()
	chief := models.KitchenChief{
		LoginID:    "1234567890",
		Name:       "Asha",
		Mobile:     "+919800000001",
		HostelName: "Ganga Hostel",
		HostelCode: "GH-01",
	}
	require.NoError(t, store.CreateChief(context.Background(), &chief))
	return chief
}

func seedItem(t *testing.T, store *memory.Store, name string, stock int64) models.InventoryItem {
	t.Helper()
	ctx := context.Background()
	item := models.InventoryItem{ItemName: name, Unit: "kg", Category: "Grains"}
	require.NoError(t, store.CreateItem(ctx, &item))
	if stock > 0 {
		source := "AMC Purchase"
		require.NoError(t, store.ApplyMovements(ctx, []models.RationTransaction{{
			ItemID:          item.ID,
			Type:            models.TransactionIn,
			Quantity:        decimal.NewFromInt(stock),
			Source:          &source,
			TransactionDate: time.Now(),
		}}))
	}
	out, err := store.ItemByID(ctx, item.ID)
	require.NoError(t, err)
	return out
}

func TestSubmitRequestValidation(t *testing.T) {
	store := memory.NewStore()
	h := NewRationHandler(store, nil)
	chief := seedChief(t, store)
	rice := seedItem(t, store, "Rice", 100)

	tests := []struct {
		name string
		req  SubmitRequest
	}{
		{
			name: "no items",
			req:  SubmitRequest{ChiefID: chief.ID, PreparationFor: "Lunch"},
		},
		{
			name: "unknown preparation tag",
			req: SubmitRequest{ChiefID: chief.ID, PreparationFor: "Brunch",
				Items: []RequestLine{{ItemID: rice.ID, Quantity: decimal.NewFromInt(1)}}},
		},
		{
			name: "non-positive quantity",
			req: SubmitRequest{ChiefID: chief.ID, PreparationFor: "Lunch",
				Items: []RequestLine{{ItemID: rice.ID, Quantity: decimal.Zero}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.SubmitRequest(context.Background(), tt.req)
			var verr *faults.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	_, err := h.SubmitRequest(context.Background(), SubmitRequest{
		ChiefID: 999, PreparationFor: "Lunch",
		Items: []RequestLine{{ItemID: rice.ID, Quantity: decimal.NewFromInt(1)}},
	})
	var nf *faults.NotFoundError
	assert.ErrorAs(t, err, &nf, "unknown chief")

	_, err = h.SubmitRequest(context.Background(), SubmitRequest{
		ChiefID: chief.ID, PreparationFor: "Lunch",
		Items: []RequestLine{{ItemID: rice.ID, Quantity: decimal.NewFromInt(500)}},
	})
	var stockErr *faults.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr, "advisory stock check at submission")
}

func TestApproveDeductsAllLines(t *testing.T) {
	store := memory.NewStore()
	h := NewRationHandler(store, nil)
	ctx := context.Background()
	chief := seedChief(t, store)
	rice := seedItem(t, store, "Rice", 100)
	dal := seedItem(t, store, "Dal", 40)

	request, err := h.SubmitRequest(ctx, SubmitRequest{
		ChiefID:        chief.ID,
		PreparationFor: "Dinner",
		Items: []RequestLine{
			{ItemID: rice.ID, Quantity: decimal.NewFromInt(30)},
			{ItemID: dal.ID, Quantity: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, request.Status)
	assert.Equal(t, "Ganga Hostel", request.HostelName)

	approved, err := h.ApproveRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, approved.Status)

	riceAfter, err := store.ItemByID(ctx, rice.ID)
	require.NoError(t, err)
	assert.True(t, riceAfter.CurrentStock.Equal(decimal.NewFromInt(70)))
	dalAfter, err := store.ItemByID(ctx, dal.ID)
	require.NoError(t, err)
	assert.True(t, dalAfter.CurrentStock.Equal(decimal.NewFromInt(35)))

	// The deduction is recorded against the chief and the preparation.
	history, err := store.TransactionsByItem(ctx, rice.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	out := history[0]
	if out.Type != models.TransactionOut {
		out = history[1]
	}
	require.NotNil(t, out.Purpose)
	assert.Equal(t, "Dinner", *out.Purpose)
	require.NotNil(t, out.Chief)
	assert.Equal(t, chief.Name, *out.Chief)
}

func TestApproveShortfallLeavesEverythingUntouched(t *testing.T) {
	store := memory.NewStore()
	h := NewRationHandler(store, nil)
	ctx := context.Background()
	chief := seedChief(t, store)
	rice := seedItem(t, store, "Rice", 100)
	dal := seedItem(t, store, "Dal", 40)

	request, err := h.SubmitRequest(ctx, SubmitRequest{
		ChiefID:        chief.ID,
		PreparationFor: "Lunch",
		Items: []RequestLine{
			{ItemID: rice.ID, Quantity: decimal.NewFromInt(30)},
			{ItemID: dal.ID, Quantity: decimal.NewFromInt(40)},
		},
	})
	require.NoError(t, err)

	// Stock moved between submission and approval.
	purpose := "Special Event"
	require.NoError(t, store.ApplyMovements(ctx, []models.RationTransaction{{
		ItemID:          dal.ID,
		Type:            models.TransactionOut,
		Quantity:        decimal.NewFromInt(10),
		Purpose:         &purpose,
		TransactionDate: time.Now(),
	}}))

	_, err = h.ApproveRequest(ctx, request.ID)
	var stockErr *faults.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, dal.ID, stockErr.ItemID)

	// The rice line of the failed approval must not have deducted.
	riceAfter, err := store.ItemByID(ctx, rice.ID)
	require.NoError(t, err)
	assert.True(t, riceAfter.CurrentStock.Equal(decimal.NewFromInt(100)))

	reloaded, err := store.RequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, reloaded.Status, "request stays approvable")
}

func TestTerminalRequestsCannotTransition(t *testing.T) {
	store := memory.NewStore()
	h := NewRationHandler(store, nil)
	ctx := context.Background()
	chief := seedChief(t, store)
	rice := seedItem(t, store, "Rice", 100)

	request, err := h.SubmitRequest(ctx, SubmitRequest{
		ChiefID:        chief.ID,
		PreparationFor: "Breakfast",
		Items:          []RequestLine{{ItemID: rice.ID, Quantity: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	rejected, err := h.RejectRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, rejected.Status)

	var nf *faults.NotFoundError
	_, err = h.ApproveRequest(ctx, request.ID)
	assert.ErrorAs(t, err, &nf)
	_, err = h.RejectRequest(ctx, request.ID)
	assert.ErrorAs(t, err, &nf)

	// Rejection never touches stock.
	riceAfter, err := store.ItemByID(ctx, rice.ID)
	require.NoError(t, err)
	assert.True(t, riceAfter.CurrentStock.Equal(decimal.NewFromInt(100)))
}

func TestListPendingAndHistory(t *testing.T) {
	store := memory.NewStore()
	h := NewRationHandler(store, nil)
	ctx := context.Background()
	chief := seedChief(t, store)
	rice := seedItem(t, store, "Rice", 100)

	first, err := h.SubmitRequest(ctx, SubmitRequest{
		ChiefID:        chief.ID,
		PreparationFor: "Lunch",
		Items:          []RequestLine{{ItemID: rice.ID, Quantity: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)
	second, err := h.SubmitRequest(ctx, SubmitRequest{
		ChiefID:        chief.ID,
		PreparationFor: "Dinner",
		Items:          []RequestLine{{ItemID: rice.ID, Quantity: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)

	pending, err := h.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = h.ApproveRequest(ctx, first.ID)
	require.NoError(t, err)

	pending, err = h.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	history, err := h.ListHistory(ctx, chief.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = h.ListHistory(ctx, 999)
	var nf *faults.NotFoundError
	assert.ErrorAs(t, err, &nf)
}
