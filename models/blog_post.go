package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogPost represents a complete blog post with metadata
type BlogPost struct {
	ID         uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title      string     `json:"title" db:"title" gorm:"type:varchar(255);not null"`
	Content    string     `json:"content" db:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at" gorm:"not null;index:idx_blog_posts_created_at;<-:create"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at" gorm:"not null"`
	AuthorID   uuid.UUID  `json:"author_id" db:"author_id" gorm:"type:uuid;not null;index:idx_blog_posts_author_id"`
	CategoryID *uuid.UUID `json:"category_id" db:"category_id" gorm:"type:uuid;index:idx_blog_posts_category_id"`

	Author   User      `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Category *Category `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:SET NULL"`
	Tags     []Tag     `json:"-" gorm:"many2many:post_tags;constraint:OnDelete:CASCADE"`
	Likes    []Like    `json:"-" gorm:"foreignKey:BlogPostID;references:ID;constraint:OnDelete:CASCADE"`
	Comments []Comment `json:"-" gorm:"foreignKey:BlogPostID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// OwnerID is the author of the post.
func (p BlogPost) OwnerID() uuid.UUID {
	return p.AuthorID
}

func (p BlogPost) String() string {
	return p.Title
}

// Details describes the post and who wrote it. Author must be loaded.
func (p BlogPost) Details() string {
	return fmt.Sprintf("%s belongs to %s", p.Title, p.Author.Username)
}

// TagIDs lists the ids of the loaded tags in load order.
func (p BlogPost) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Tags))
	for _, tag := range p.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}
