package models

import "time"

const (
	CollectionPending      = "Pending"
	CollectionCollected    = "Collected"
	CollectionNotCollected = "Not Collected"
)

type KitCycle struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Contents  string    `gorm:"type:text;not null"`
	IsActive  bool      `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KitCollection tracks one student's kit for one cycle. QRToken doubles
// as the bearer credential for redemption, so it must be crypto-random
// and globally unique.
type KitCollection struct {
	ID          uint       `gorm:"primaryKey"`
	CycleID     uint       `gorm:"index;not null"`
	StudentID   uint       `gorm:"index;not null"`
	Status      string     `gorm:"size:20;index;not null;default:Pending"`
	QRToken     string     `gorm:"size:64;uniqueIndex;not null"`
	CollectedAt *time.Time

	Cycle   *KitCycle `gorm:"foreignKey:CycleID"`
	Student *Student  `gorm:"foreignKey:StudentID"`
}

type Student struct {
	ID        uint   `gorm:"primaryKey"`
	SSPID     string `gorm:"size:50;uniqueIndex;not null"`
	Name      string `gorm:"size:255;not null"`
	Phone     string `gorm:"size:20"`
	Room      string `gorm:"size:50"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
