package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can author posts and comments and like posts.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Username     string    `json:"username" db:"username" gorm:"type:varchar(150);not null;uniqueIndex"`
	Email        string    `json:"email" db:"email" gorm:"type:varchar(254);not null;default:''"`
	FirstName    string    `json:"first_name" db:"first_name" gorm:"type:varchar(150);not null;default:''"`
	LastName     string    `json:"last_name" db:"last_name" gorm:"type:varchar(150);not null;default:''"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	DateJoined   time.Time `json:"date_joined" db:"date_joined" gorm:"not null;autoCreateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u User) String() string {
	return u.Username
}
