package handlers

import (
	"github.com/gin-gonic/gin"

	inventory "hostel-system/internal/services/inventory/handler"
)

type InventoryHTTPHandler struct {
	inventory *inventory.InventoryHandler
}

func NewInventoryHTTPHandler(handler *inventory.InventoryHandler) *InventoryHTTPHandler {
	return &InventoryHTTPHandler{inventory: handler}
}

func (s *InventoryHTTPHandler) AddItem(c *gin.Context) {
	var req inventory.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := s.inventory.AddItem(c.Request.Context(), req)
	if err != nil {
		respondFault(c, err)
		return
	}
	created(c, item)
}

func (s *InventoryHTTPHandler) ListItems(c *gin.Context) {
	items, err := s.inventory.ListItems(c.Request.Context())
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, items)
}

func (s *InventoryHTTPHandler) RecordIncoming(c *gin.Context) {
	var req inventory.IncomingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := s.inventory.RecordIncoming(c.Request.Context(), req)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, item)
}

func (s *InventoryHTTPHandler) RecordOutgoing(c *gin.Context) {
	var req inventory.OutgoingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := s.inventory.RecordOutgoing(c.Request.Context(), req)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, item)
}

func (s *InventoryHTTPHandler) BulkIncoming(c *gin.Context) {
	var req inventory.BulkIncomingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := s.inventory.BulkIncoming(c.Request.Context(), req); err != nil {
		respondFault(c, err)
		return
	}
	success(c, gin.H{"message": "stock added for all items"})
}

func (s *InventoryHTTPHandler) GetHistory(c *gin.Context) {
	itemID, err := parseUintParam(c, "itemId")
	if err != nil {
		badRequest(c, "Invalid item ID")
		return
	}

	transactions, err := s.inventory.GetHistory(c.Request.Context(), itemID)
	if err != nil {
		respondFault(c, err)
		return
	}
	success(c, transactions)
}
