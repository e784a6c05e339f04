package models

import (
	"time"

	"github.com/google/uuid"
)

// Like records that a user liked a post. A user likes a post at most once.
type Like struct {
	BlogPostID uuid.UUID `json:"post" db:"blog_post_id" gorm:"type:uuid;primaryKey;not null"`
	UserID     uuid.UUID `json:"user" db:"user_id" gorm:"type:uuid;primaryKey;not null;index:idx_likes_user_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at" gorm:"not null"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}
