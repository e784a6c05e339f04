package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/database/dbtest"
	"github.com/rpupo63/blog-backend/errs"
	"github.com/rpupo63/blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestBlogPostAddAndFind(t *testing.T) {
	db := dbtest.Open(t)
	repo := database.New(db).BlogPostRepo()
	ctx := context.Background()

	ana := dbtest.User(t, db, "ana", "Ana", "Silva")
	travel := dbtest.Category(t, db, "Travel")
	goTag := dbtest.Tag(t, db, "go")
	sqlTag := dbtest.Tag(t, db, "sql")

	post := dbtest.Post(t, db, ana, "First Post", travel, goTag, sqlTag)
	assert.NotEqual(t, uuid.Nil, post.ID)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	assert.Equal(t, "ana", post.Author.Username)
	require.NotNil(t, post.Category)
	assert.Equal(t, "Travel", post.Category.Name)
	assert.ElementsMatch(t, []uuid.UUID{goTag.ID, sqlTag.ID}, post.TagIDs())

	found, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "First Post", found.Title)
	assert.True(t, post.CreatedAt.Equal(found.CreatedAt))

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBlogPostDuplicateTagRejected(t *testing.T) {
	db := dbtest.Open(t)
	repo := database.NewBlogPostRepo(db)

	ana := dbtest.User(t, db, "ana", "", "")
	goTag := dbtest.Tag(t, db, "go")

	post := &models.BlogPost{Title: "Dup", Content: "x", AuthorID: ana.ID}
	err := repo.Add(context.Background(), post, []uuid.UUID{goTag.ID, goTag.ID})
	require.Error(t, err)
	assert.True(t, errs.IsDuplicateKey(err))

	assert.Zero(t, dbtest.Count(t, db, &models.BlogPost{}, ""), "post insert rolled back")
}

func TestBlogPostUpdateTimestamps(t *testing.T) {
	db := dbtest.Open(t)
	repo := database.NewBlogPostRepo(db)
	ctx := context.Background()

	ana := dbtest.User(t, db, "ana", "", "")
	goTag := dbtest.Tag(t, db, "go")
	post := dbtest.Post(t, db, ana, "First Post", nil, goTag)
	createdAt, updatedAt := post.CreatedAt, post.UpdatedAt

	post.Title = "Renamed"
	post.Content = "ignored because content is not selected"
	require.NoError(t, repo.Update(ctx, post, database.PostUpdate{Columns: []string{"title"}}))

	assert.Equal(t, "Renamed", post.Title)
	assert.Equal(t, "Content of First Post", post.Content)
	assert.True(t, createdAt.Equal(post.CreatedAt))
	assert.True(t, post.UpdatedAt.After(updatedAt))
	assert.Equal(t, []uuid.UUID{goTag.ID}, post.TagIDs(), "tags untouched")

	previous := post.UpdatedAt
	noTags := []uuid.UUID{}
	require.NoError(t, repo.Update(ctx, post, database.PostUpdate{Tags: &noTags}))
	assert.Empty(t, post.Tags)
	assert.True(t, post.UpdatedAt.After(previous))
	assert.True(t, createdAt.Equal(post.CreatedAt))
}

func TestBlogPostDeleteCascades(t *testing.T) {
	db := dbtest.Open(t)
	repo := database.NewBlogPostRepo(db)

	ana := dbtest.User(t, db, "ana", "", "")
	bob := dbtest.User(t, db, "bob", "", "")
	goTag := dbtest.Tag(t, db, "go")
	post := dbtest.Post(t, db, ana, "Doomed", nil, goTag)
	other := dbtest.Post(t, db, ana, "Survivor", nil, goTag)
	dbtest.Like(t, db, post, bob)
	dbtest.Like(t, db, other, bob)
	dbtest.Comment(t, db, post, bob, "nice")

	require.NoError(t, repo.Delete(context.Background(), post.ID))

	assert.Zero(t, dbtest.Count(t, db, &models.BlogPost{}, "id = ?", post.ID))
	assert.Zero(t, dbtest.Count(t, db, &models.Comment{}, "blog_post_id = ?", post.ID))
	assert.Zero(t, dbtest.Count(t, db, &models.Like{}, "blog_post_id = ?", post.ID))
	assert.Zero(t, dbtest.Count(t, db, &models.PostTag{}, "blog_post_id = ?", post.ID))

	assert.EqualValues(t, 1, dbtest.Count(t, db, &models.BlogPost{}, ""))
	assert.EqualValues(t, 1, dbtest.Count(t, db, &models.Like{}, ""))
	assert.EqualValues(t, 1, dbtest.Count(t, db, &models.Tag{}, ""))
}

func TestCategoryDeleteDetachesPosts(t *testing.T) {
	db := dbtest.Open(t)
	repos := database.New(db)
	ctx := context.Background()

	ana := dbtest.User(t, db, "ana", "", "")
	travel := dbtest.Category(t, db, "Travel")
	post := dbtest.Post(t, db, ana, "Trip", travel)

	require.NoError(t, repos.CategoryRepo().Delete(ctx, travel.ID))

	found, err := repos.BlogPostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Nil(t, found.CategoryID)
	assert.Nil(t, found.Category)
	assert.True(t, post.UpdatedAt.Equal(found.UpdatedAt))

	err = repos.CategoryRepo().Delete(ctx, travel.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestTagDeleteRemovesAssignments(t *testing.T) {
	db := dbtest.Open(t)
	repos := database.New(db)
	ctx := context.Background()

	ana := dbtest.User(t, db, "ana", "", "")
	goTag := dbtest.Tag(t, db, "go")
	sqlTag := dbtest.Tag(t, db, "sql")
	post := dbtest.Post(t, db, ana, "Tagged", nil, goTag, sqlTag)

	require.NoError(t, repos.TagRepo().Delete(ctx, goTag.ID))

	found, err := repos.BlogPostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{sqlTag.ID}, found.TagIDs())

	tags, err := repos.TagRepo().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "sql", tags[0].Name)
}

func TestLikeUniqueness(t *testing.T) {
	db := dbtest.Open(t)
	repos := database.New(db)
	ctx := context.Background()

	ana := dbtest.User(t, db, "ana", "", "")
	bob := dbtest.User(t, db, "bob", "", "")
	post := dbtest.Post(t, db, ana, "Liked", nil)

	require.NoError(t, repos.LikeRepo().Add(ctx, &models.Like{BlogPostID: post.ID, UserID: bob.ID}))
	err := repos.LikeRepo().Add(ctx, &models.Like{BlogPostID: post.ID, UserID: bob.ID})
	require.Error(t, err)
	assert.True(t, errs.IsDuplicateKey(err))

	count, err := repos.BlogPostRepo().CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	likes, err := repos.LikeRepo().FindByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, bob.ID, likes[0].UserID)

	require.NoError(t, repos.LikeRepo().Delete(ctx, post.ID, bob.ID))
	assert.ErrorIs(t, repos.LikeRepo().Delete(ctx, post.ID, bob.ID), gorm.ErrRecordNotFound)
}

func TestCommentLifecycle(t *testing.T) {
	db := dbtest.Open(t)
	repo := database.NewCommentRepo(db)
	ctx := context.Background()

	ana := dbtest.User(t, db, "ana", "", "")
	post := dbtest.Post(t, db, ana, "Discussed", nil)
	comment := dbtest.Comment(t, db, post, ana, "first!")
	assert.Equal(t, "ana", comment.Author.Username)

	createdAt := comment.CreatedAt
	comment.Content = "edited"
	require.NoError(t, repo.UpdateContent(ctx, comment))
	assert.Equal(t, "edited", comment.Content)
	assert.True(t, createdAt.Equal(comment.CreatedAt))
	assert.True(t, comment.UpdatedAt.After(createdAt))

	missing, err := repo.FindByID(ctx, uuid.New(), comment.ID)
	require.NoError(t, err)
	assert.Nil(t, missing, "comment looked up under another post")

	require.NoError(t, repo.Delete(ctx, comment.ID))
	found, err := repo.FindByID(ctx, post.ID, comment.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserDeleteCascades(t *testing.T) {
	db := dbtest.Open(t)
	repos := database.New(db)
	ctx := context.Background()

	ana := dbtest.User(t, db, "ana", "", "")
	bob := dbtest.User(t, db, "bob", "", "")
	goTag := dbtest.Tag(t, db, "go")
	anaPost := dbtest.Post(t, db, ana, "Ana's", nil, goTag)
	bobPost := dbtest.Post(t, db, bob, "Bob's", nil, goTag)
	dbtest.Like(t, db, anaPost, bob)
	dbtest.Like(t, db, bobPost, ana)
	dbtest.Comment(t, db, anaPost, bob, "on ana's post")
	dbtest.Comment(t, db, bobPost, ana, "ana on bob's post")
	dbtest.Comment(t, db, bobPost, bob, "bob on his own post")

	ids, err := repos.UserRepo().PostIDs(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{anaPost.ID}, ids)

	require.NoError(t, repos.UserRepo().Delete(ctx, ana.ID))

	gone, err := repos.UserRepo().FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.Zero(t, dbtest.Count(t, db, &models.BlogPost{}, "author_id = ?", ana.ID))
	assert.Zero(t, dbtest.Count(t, db, &models.Comment{}, "blog_post_id = ?", anaPost.ID))
	assert.Zero(t, dbtest.Count(t, db, &models.Comment{}, "author_id = ?", ana.ID))
	assert.Zero(t, dbtest.Count(t, db, &models.Like{}, "user_id = ? OR blog_post_id = ?", ana.ID, anaPost.ID))
	assert.EqualValues(t, 1, dbtest.Count(t, db, &models.Comment{}, ""))
	assert.EqualValues(t, 1, dbtest.Count(t, db, &models.PostTag{}, ""))
}

func TestUsernameUnique(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.User(t, db, "ana", "", "")

	err := database.NewUserRepo(db).Add(context.Background(), &models.User{Username: "ana", PasswordHash: "x"})
	require.Error(t, err)
	assert.True(t, errs.IsDuplicateKey(err))
}

func TestOptionsFromConfig(t *testing.T) {
	opts := database.OptionsFromConfig(map[string]string{
		"DB_HOST":               "db.internal",
		"DB_PASSWORD":           "pw",
		"DATABASE_REPLICA_URLS": "postgres://r1/blog, postgres://r2/blog",
		"DB_SLOW_THRESHOLD_MS":  "50",
		"DB_LOG_LEVEL":          "silent",
	})

	assert.Equal(t, database.DriverPostgres, opts.Driver)
	assert.Equal(t, "host=db.internal user=postgres password=pw dbname=blog port=5432 sslmode=disable", opts.DSN)
	assert.Equal(t, []string{"postgres://r1/blog", "postgres://r2/blog"}, opts.ReplicaDSNs)
	assert.Equal(t, 50*time.Millisecond, opts.SlowThreshold)
	assert.Equal(t, logger.Silent, opts.LogLevel)

	opts = database.OptionsFromConfig(map[string]string{"DATABASE_URL": "postgres://primary/blog", "DB_DRIVER": "SQLite"})
	assert.Equal(t, "postgres://primary/blog", opts.DSN)
	assert.Equal(t, database.DriverSQLite, opts.Driver)
}

func TestOpenSQLite(t *testing.T) {
	db, err := database.Open(database.Options{
		Driver:   database.DriverSQLite,
		DSN:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: logger.Silent,
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))
	assert.NoError(t, database.New(db).Ping(context.Background()))

	_, err = database.Open(database.Options{Driver: "oracle", DSN: "x"}, zerolog.Nop())
	assert.Error(t, err)

	_, err = database.Open(database.Options{Driver: database.DriverSQLite}, zerolog.Nop())
	assert.Error(t, err)
}
