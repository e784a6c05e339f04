package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepo struct {
	db *gorm.DB
}

func NewLikeRepo(db *gorm.DB) *LikeRepo {
	return &LikeRepo{db}
}

// Add records a like. A second like for the same post and user fails with
// a duplicate key error from the store.
func (r *LikeRepo) Add(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(like).Error
}

// Delete removes a like, returning gorm.ErrRecordNotFound when there was none.
func (r *LikeRepo) Delete(ctx context.Context, postID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("blog_post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByPost returns the likes of a post, oldest first.
func (r *LikeRepo) FindByPost(ctx context.Context, postID uuid.UUID) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.WithContext(ctx).
		Where("blog_post_id = ?", postID).
		Order("created_at ASC").
		Find(&likes).Error
	return likes, err
}
