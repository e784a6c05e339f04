package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Content    string    `json:"content" db:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" db:"created_at" gorm:"not null;<-:create"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at" gorm:"not null"`
	BlogPostID uuid.UUID `json:"post" db:"blog_post_id" gorm:"type:uuid;not null;index:idx_comments_blog_post_id"`
	AuthorID   uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null;index:idx_comments_author_id"`

	Author   User     `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	BlogPost BlogPost `json:"-" gorm:"foreignKey:BlogPostID;references:ID"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c Comment) OwnerID() uuid.UUID {
	return c.AuthorID
}

// String needs Author and BlogPost loaded.
func (c Comment) String() string {
	return fmt.Sprintf("Comment by %s on %s", c.Author.Username, c.BlogPost.Title)
}
