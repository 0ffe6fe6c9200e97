package models

import "time"

type Admin struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	Phone     string `gorm:"size:20;uniqueIndex;not null"`
	Password  string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KitchenChief logs in with a generated 10-digit LoginID rather than an
// email address.
type KitchenChief struct {
	ID         uint   `gorm:"primaryKey"`
	LoginID    string `gorm:"size:10;uniqueIndex;not null"`
	Name       string `gorm:"size:255;not null"`
	Mobile     string `gorm:"size:20;not null"`
	Password   string `gorm:"size:255;not null"`
	HostelName string `gorm:"size:255"`
	HostelCode string `gorm:"size:100"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
