package models

import "time"

// User represents a customer account.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email          string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	HashedPassword string    `json:"-" gorm:"type:varchar(255);not null"` // Never serialized
	FirstName      string    `json:"first_name" gorm:"type:varchar(26)"`
	LastName       string    `json:"last_name" gorm:"type:varchar(26)"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
