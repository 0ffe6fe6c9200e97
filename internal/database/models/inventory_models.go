package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIn  = "IN"
	TransactionOut = "OUT"
)

const (
	RequestPending  = "Pending"
	RequestApproved = "Approved"
	RequestRejected = "Rejected"
)

type InventoryItem struct {
	ID           uint            `gorm:"primaryKey"`
	ItemName     string          `gorm:"size:255;uniqueIndex;not null"`
	Unit         string          `gorm:"size:50;not null"`
	Category     string          `gorm:"size:100;not null"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RationTransaction is an append-only stock movement. Rows are never
// updated or deleted; an item's CurrentStock is always the signed sum
// of its transactions.
type RationTransaction struct {
	ID              uint            `gorm:"primaryKey"`
	ItemID          uint            `gorm:"index;not null"`
	Type            string          `gorm:"size:10;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Source          *string         `gorm:"size:255"`
	Purpose         *string         `gorm:"size:255"`
	Chief           *string         `gorm:"size:255"`
	TransactionDate time.Time       `gorm:"index;not null"`

	Item *InventoryItem `gorm:"foreignKey:ItemID"`
}

type RationRequest struct {
	ID             uint   `gorm:"primaryKey"`
	RequestedByID  uint   `gorm:"index;not null"`
	Status         string `gorm:"size:20;index;not null;default:Pending"`
	HostelName     string `gorm:"size:255"`
	HostelCode     string `gorm:"size:100"`
	PreparationFor string `gorm:"size:50;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	RequestedBy *KitchenChief       `gorm:"foreignKey:RequestedByID"`
	Items       []RationRequestItem `gorm:"foreignKey:RequestID"`
}

type RationRequestItem struct {
	ID        uint            `gorm:"primaryKey"`
	RequestID uint            `gorm:"index;not null"`
	ItemID    uint            `gorm:"not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Unit      string          `gorm:"size:50;not null"`

	Item *InventoryItem `gorm:"foreignKey:ItemID"`
}
