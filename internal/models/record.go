// Package models defines the database models for the SQL record store.
package models

import "time"

// Record is one account row. Address is the primary key, Space is the byte
// budget fixed at creation and Data never grows past it.
type Record struct {
	Address   []byte `gorm:"primaryKey;size:32"`
	Owner     []byte `gorm:"size:32;not null;index"`
	Space     uint32 `gorm:"not null"`
	Data      []byte `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name
func (Record) TableName() string {
	return "records"
}
