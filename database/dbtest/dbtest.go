// Package dbtest opens isolated, migrated in-memory SQLite databases and
// seeds fixtures for tests of the packages built on top of database.
package dbtest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Clock advances by Step every time it is read.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{now: start, step: step}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

// Start is the first instant handed out by the default clock, minus one step.
var Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Open returns a migrated database whose clock starts at Start and ticks one
// second per read.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	return OpenWithClock(t, NewClock(Start, time.Second))
}

func OpenWithClock(t testing.TB, clock *Clock) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(database.SQLiteDialector(dsn), database.NewGormConfig(logger.Discard, clock.Now))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func User(t testing.TB, db *gorm.DB, username, firstName, lastName string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        username + "@example.com",
		PasswordHash: "unused",
	}
	require.NoError(t, database.NewUserRepo(db).Add(context.Background(), user))
	return user
}

func Category(t testing.TB, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Description: name + " posts"}
	require.NoError(t, database.NewCategoryRepo(db).Add(context.Background(), category))
	return category
}

func Tag(t testing.TB, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name}
	require.NoError(t, database.NewTagRepo(db).Add(context.Background(), tag))
	return tag
}

func Post(t testing.TB, db *gorm.DB, author *models.User, title string, category *models.Category, tags ...*models.Tag) *models.BlogPost {
	t.Helper()
	post := &models.BlogPost{
		Title:    title,
		Content:  "Content of " + title,
		AuthorID: author.ID,
	}
	if category != nil {
		post.CategoryID = &category.ID
	}
	tagIDs := make([]uuid.UUID, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	require.NoError(t, database.NewBlogPostRepo(db).Add(context.Background(), post, tagIDs))
	return post
}

func Like(t testing.TB, db *gorm.DB, post *models.BlogPost, user *models.User) {
	t.Helper()
	require.NoError(t, database.NewLikeRepo(db).Add(context.Background(), &models.Like{BlogPostID: post.ID, UserID: user.ID}))
}

func Comment(t testing.TB, db *gorm.DB, post *models.BlogPost, author *models.User, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{BlogPostID: post.ID, AuthorID: author.ID, Content: content}
	require.NoError(t, database.NewCommentRepo(db).Add(context.Background(), comment))
	return comment
}

// Count returns the number of rows of model matching the optional condition.
func Count(t testing.TB, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var count int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&count).Error)
	return count
}
