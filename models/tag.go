package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name string    `json:"name" db:"name" gorm:"type:varchar(255);not null"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t Tag) String() string {
	return t.Name
}

// PostTag is the join row between a blog post and a tag. The composite
// primary key keeps a tag from being assigned to the same post twice.
type PostTag struct {
	BlogPostID uuid.UUID `json:"blog_post_id" db:"blog_post_id" gorm:"type:uuid;primaryKey;not null"`
	TagID      uuid.UUID `json:"tag_id" db:"tag_id" gorm:"type:uuid;primaryKey;not null;index:idx_post_tags_tag_id"`
}
