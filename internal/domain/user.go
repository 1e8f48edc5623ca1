package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID       uuid.UUID `json:"id" gorm:"type:uuid;not null"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Email        string    `json:"email" gorm:"not null"`
	Active       bool      `json:"active" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
