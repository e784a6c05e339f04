package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// QueryByPost returns the base query over the comments of one post.
func (r *CommentRepo) QueryByPost(ctx context.Context, postID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Comment{}).Where("blog_post_id = ?", postID)
}

// WithAuthor preloads the comment author.
func WithAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author")
}

// FindByID returns a comment of the given post, or nil when it does not exist.
func (r *CommentRepo) FindByID(ctx context.Context, postID, commentID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Scopes(WithAuthor).
		Where("id = ? AND blog_post_id = ?", commentID, postID).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepo) Add(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return err
	}
	return r.reload(ctx, comment)
}

// UpdateContent persists a new content and refreshes updated_at.
func (r *CommentRepo) UpdateContent(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).
		Model(comment).
		Omit(clause.Associations).
		Select("content", "updated_at").
		Updates(comment).Error
	if err != nil {
		return err
	}
	return r.reload(ctx, comment)
}

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{}).Error
}

func (r *CommentRepo) reload(ctx context.Context, comment *models.Comment) error {
	var fresh models.Comment
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Scopes(WithAuthor).Where("id = ?", comment.ID).First(&fresh).Error
	if err != nil {
		return err
	}
	*comment = fresh
	return nil
}
