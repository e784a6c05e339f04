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

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// PostUpdate selects what Update persists. Columns may contain title,
// content and category_id. A nil Tags leaves the tag set untouched.
type PostUpdate struct {
	Columns []string
	Tags    *[]uuid.UUID
}

// Query returns the unfiltered base query over all posts.
func (r *BlogPostRepo) Query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.BlogPost{})
}

// WithRelations preloads what a post representation needs.
func WithRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Tags").Preload("Category")
}

// OrderedByCreation is the default ordering: oldest first, id breaks ties.
func OrderedByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

// FindByID returns a post with its relations, or nil when it does not exist.
func (r *BlogPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.db.WithContext(ctx).Scopes(WithRelations).Where("id = ?", id).First(&blogPost).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// Add inserts a new blog post and its tag assignments in one transaction,
// then reloads the relations.
func (r *BlogPostRepo) Add(ctx context.Context, blogPost *models.BlogPost, tagIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(blogPost).Error; err != nil {
			return err
		}
		return insertPostTags(tx, blogPost.ID, tagIDs)
	})
	if err != nil {
		return err
	}
	return r.reload(ctx, blogPost)
}

// Update persists the selected columns, always refreshing updated_at, and
// replaces the tag set when requested.
func (r *BlogPostRepo) Update(ctx context.Context, blogPost *models.BlogPost, update PostUpdate) error {
	columns := append([]string{"updated_at"}, update.Columns...)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(blogPost).Omit(clause.Associations).Select(columns).Updates(blogPost).Error; err != nil {
			return err
		}
		if update.Tags == nil {
			return nil
		}
		if err := tx.Where("blog_post_id = ?", blogPost.ID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return insertPostTags(tx, blogPost.ID, *update.Tags)
	})
	if err != nil {
		return err
	}
	return r.reload(ctx, blogPost)
}

// Delete removes a post with its comments, likes and tag assignments.
func (r *BlogPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePosts(tx, tx.Model(&models.BlogPost{}).Select("id").Where("id = ?", id))
	})
}

// CountLikes returns how many users liked the post.
func (r *BlogPostRepo) CountLikes(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("blog_post_id = ?", id).Count(&count).Error
	return count, err
}

func (r *BlogPostRepo) reload(ctx context.Context, blogPost *models.BlogPost) error {
	var fresh models.BlogPost
	if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Scopes(WithRelations).Where("id = ?", blogPost.ID).First(&fresh).Error; err != nil {
		return err
	}
	*blogPost = fresh
	return nil
}

func insertPostTags(tx *gorm.DB, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.PostTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, models.PostTag{BlogPostID: postID, TagID: tagID})
	}
	return tx.Create(&rows).Error
}

// deletePosts removes the posts selected by postIDs (a subquery yielding ids)
// together with everything that hangs off them.
func deletePosts(tx *gorm.DB, postIDs *gorm.DB) error {
	dependents := []any{&models.Comment{}, &models.Like{}, &models.PostTag{}}
	for _, model := range dependents {
		if err := tx.Where("blog_post_id IN (?)", postIDs).Delete(model).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN (?)", postIDs).Delete(&models.BlogPost{}).Error
}
