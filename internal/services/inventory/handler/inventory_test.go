package handler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel-system/internal/database/memory"
	"hostel-system/internal/database/models"
	"hostel-system/internal/faults"
)

func newTestHandler() *InventoryHandler {
	return NewInventoryHandler(memory.NewStore(), nil)
}

func mustAddItem(t *testing.T, h *InventoryHandler, name, unit, category string) models.InventoryItem {
	t.Helper()
	item, err := h.AddItem(context.Background(), AddItemRequest{ItemName: name, Unit: unit, Category: category})
	require.NoError(t, err)
	return item
}

func TestAddItemValidation(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name string
		req  AddItemRequest
	}{
		{name: "missing name", req: AddItemRequest{Unit: "kg", Category: "Grains"}},
		{name: "missing unit", req: AddItemRequest{ItemName: "Rice", Category: "Grains"}},
		{name: "missing category", req: AddItemRequest{ItemName: "Rice", Unit: "kg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.AddItem(context.Background(), tt.req)
			var verr *faults.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestAddItemDuplicateName(t *testing.T) {
	h := newTestHandler()
	mustAddItem(t, h, "Rice", "kg", "Grains")

	_, err := h.AddItem(context.Background(), AddItemRequest{ItemName: "Rice", Unit: "kg", Category: "Grains"})
	var conflict *faults.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestLedgerBalance(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()
	rice := mustAddItem(t, h, "Rice", "kg", "Grains")
	require.True(t, rice.CurrentStock.IsZero())

	item, err := h.RecordIncoming(ctx, IncomingRequest{
		ItemID:   rice.ID,
		Quantity: decimal.NewFromInt(100),
		Source:   "AMC Purchase",
	})
	require.NoError(t, err)
	assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(100)))

	item, err = h.RecordOutgoing(ctx, OutgoingRequest{
		ItemID:   rice.ID,
		Quantity: decimal.NewFromInt(30),
		Purpose:  "Lunch",
		Chief:    "Asha",
	})
	require.NoError(t, err)
	assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(70)))

	// A withdrawal beyond the balance fails and changes nothing.
	_, err = h.RecordOutgoing(ctx, OutgoingRequest{
		ItemID:   rice.ID,
		Quantity: decimal.NewFromInt(80),
		Purpose:  "Dinner",
	})
	var stockErr *faults.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, rice.ID, stockErr.ItemID)
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(70)))
	assert.True(t, stockErr.Requested.Equal(decimal.NewFromInt(80)))

	history, err := h.GetHistory(ctx, rice.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// The balance is always the signed sum of the surviving ledger.
	sum := decimal.Zero
	for _, tx := range history {
		switch tx.Type {
		case models.TransactionIn:
			sum = sum.Add(tx.Quantity)
		case models.TransactionOut:
			sum = sum.Sub(tx.Quantity)
		}
	}
	current, err := h.store.ItemByID(ctx, rice.ID)
	require.NoError(t, err)
	assert.True(t, current.CurrentStock.Equal(sum))
}

func TestRecordMovementValidation(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()
	rice := mustAddItem(t, h, "Rice", "kg", "Grains")

	_, err := h.RecordIncoming(ctx, IncomingRequest{ItemID: rice.ID, Quantity: decimal.NewFromInt(10)})
	var verr *faults.ValidationError
	assert.ErrorAs(t, err, &verr, "source is required")

	_, err = h.RecordIncoming(ctx, IncomingRequest{ItemID: rice.ID, Quantity: decimal.NewFromInt(-5), Source: "AMC"})
	assert.ErrorAs(t, err, &verr, "quantity must be positive")

	_, err = h.RecordOutgoing(ctx, OutgoingRequest{ItemID: rice.ID, Quantity: decimal.NewFromInt(1)})
	assert.ErrorAs(t, err, &verr, "purpose is required")

	_, err = h.RecordIncoming(ctx, IncomingRequest{ItemID: 999, Quantity: decimal.NewFromInt(1), Source: "AMC"})
	var nf *faults.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestBulkIncomingAllOrNothing(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()
	rice := mustAddItem(t, h, "Rice", "kg", "Grains")
	dal := mustAddItem(t, h, "Dal", "kg", "Pulses")

	err := h.BulkIncoming(ctx, BulkIncomingRequest{
		Source: "AMC Purchase",
		Items: []BulkIncomingLine{
			{ItemID: rice.ID, Quantity: decimal.NewFromInt(50)},
			{ItemID: 999, Quantity: decimal.NewFromInt(10)},
			{ItemID: dal.ID, Quantity: decimal.NewFromInt(20)},
		},
	})
	var verr *faults.ValidationError
	require.ErrorAs(t, err, &verr)

	// The unknown line rejected the whole batch.
	for _, id := range []uint{rice.ID, dal.ID} {
		item, err := h.store.ItemByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, item.CurrentStock.IsZero())
	}

	err = h.BulkIncoming(ctx, BulkIncomingRequest{
		Source: "AMC Purchase",
		Items: []BulkIncomingLine{
			{ItemID: rice.ID, Quantity: decimal.NewFromInt(50)},
			{ItemID: dal.ID, Quantity: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)

	item, err := h.store.ItemByID(ctx, dal.ID)
	require.NoError(t, err)
	assert.True(t, item.CurrentStock.Equal(decimal.NewFromInt(20)))
}

func TestConcurrentOutgoingNeverOverdraws(t *testing.T) {
	h := newTestHandler()
	ctx := context.Background()
	rice := mustAddItem(t, h, "Rice", "kg", "Grains")

	_, err := h.RecordIncoming(ctx, IncomingRequest{
		ItemID:   rice.ID,
		Quantity: decimal.NewFromInt(10),
		Source:   "AMC Purchase",
	})
	require.NoError(t, err)

	const attempts = 25
	var ok, short int64
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.RecordOutgoing(ctx, OutgoingRequest{
				ItemID:   rice.ID,
				Quantity: decimal.NewFromInt(1),
				Purpose:  "Lunch",
			})
			var stockErr *faults.InsufficientStockError
			switch {
			case err == nil:
				atomic.AddInt64(&ok, 1)
			case errors.As(err, &stockErr):
				atomic.AddInt64(&short, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, ok)
	assert.EqualValues(t, attempts-10, short)

	item, err := h.store.ItemByID(ctx, rice.ID)
	require.NoError(t, err)
	assert.True(t, item.CurrentStock.IsZero())
}
