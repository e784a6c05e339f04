package database

import (
	"context"
	"fmt"

	"github.com/rpupo63/blog-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db           *gorm.DB
	blogPostRepo *BlogPostRepo
	categoryRepo *CategoryRepo
	tagRepo      *TagRepo
	likeRepo     *LikeRepo
	commentRepo  *CommentRepo
	userRepo     *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		blogPostRepo: NewBlogPostRepo(db),
		categoryRepo: NewCategoryRepo(db),
		tagRepo:      NewTagRepo(db),
		likeRepo:     NewLikeRepo(db),
		commentRepo:  NewCommentRepo(db),
		userRepo:     NewUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) LikeRepo() *LikeRepo {
	return d.likeRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

// Ping checks that the primary is reachable.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Prepare registers the custom join tables. It must run before any query
// touching BlogPost.Tags and before migration.
func Prepare(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.BlogPost{}, "Tags", &models.PostTag{}); err != nil {
		return fmt.Errorf("setup post_tags join table: %w", err)
	}
	return nil
}

// Migrate creates or upgrades the schema for every model.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := Prepare(db); err != nil {
		return err
	}
	migrateDB := db.WithContext(ctx).Session(&gorm.Session{SkipDefaultTransaction: true})
	if err := migrateDB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}
	return nil
}
