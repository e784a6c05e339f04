package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups blog posts. A post has at most one category.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string    `json:"name" db:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" db:"description" gorm:"type:text;not null"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c Category) String() string {
	return c.Name
}
