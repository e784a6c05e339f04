package filters_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/database/dbtest"
	"github.com/rpupo63/blog-backend/filters"
	"github.com/rpupo63/blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func titles(t *testing.T, db *gorm.DB, params url.Values) []string {
	t.Helper()

	query := filters.Apply(database.NewBlogPostRepo(db).Query(context.Background()), params)

	var posts []models.BlogPost
	require.NoError(t, query.Scopes(database.OrderedByCreation).Find(&posts).Error)

	result := make([]string, 0, len(posts))
	for _, post := range posts {
		result = append(result, post.Title)
	}
	return result
}

type fixture struct {
	db     *gorm.DB
	first  *models.BlogPost
	second *models.BlogPost
	third  *models.BlogPost
}

func newFixture(t *testing.T) fixture {
	db := dbtest.Open(t)

	ana := dbtest.User(t, db, "ana", "Ana", "Silva")
	bob := dbtest.User(t, db, "bob", "Bob", "Stone")
	travel := dbtest.Category(t, db, "Travel")
	food := dbtest.Category(t, db, "Food")
	golang := dbtest.Tag(t, db, "golang")
	goTag := dbtest.Tag(t, db, "go")
	rust := dbtest.Tag(t, db, "rust")

	first := dbtest.Post(t, db, ana, "First Post", travel, golang, goTag)
	second := dbtest.Post(t, db, bob, "Second POST", food, rust)
	third := dbtest.Post(t, db, ana, "Untitled", nil)

	dbtest.Like(t, db, first, ana)
	dbtest.Like(t, db, first, bob)
	dbtest.Like(t, db, second, ana)

	return fixture{db: db, first: first, second: second, third: third}
}

func TestApplySubstringFilters(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		params url.Values
		want   []string
	}{
		{"no filters", url.Values{}, []string{"First Post", "Second POST", "Untitled"}},
		{"title is case-insensitive", url.Values{"title": {"post"}}, []string{"First Post", "Second POST"}},
		{"content", url.Values{"content": {"OF UNTITLED"}}, []string{"Untitled"}},
		{"author first name", url.Values{"author__first_name": {"an"}}, []string{"First Post", "Untitled"}},
		{"author last name", url.Values{"author__last_name": {"STONE"}}, []string{"Second POST"}},
		{"category name", url.Values{"category__name": {"trav"}}, []string{"First Post"}},
		{"two matching tags yield one post", url.Values{"tags__name": {"go"}}, []string{"First Post"}},
		{"tag name no match", url.Values{"tags__name": {"python"}}, []string{}},
		{"conjunction", url.Values{"title": {"post"}, "author__first_name": {"bob"}}, []string{"Second POST"}},
		{"empty value ignored", url.Values{"title": {""}}, []string{"First Post", "Second POST", "Untitled"}},
		{"unknown param ignored", url.Values{"colour": {"red"}, "page": {"2"}}, []string{"First Post", "Second POST", "Untitled"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(t, f.db, tt.params))
		})
	}
}

func TestApplyLikesCount(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{"First Post"}, titles(t, f.db, url.Values{"likes_count": {"2"}}))
	assert.Equal(t, []string{"Second POST"}, titles(t, f.db, url.Values{"likes_count": {"1.0"}}))
	assert.Equal(t, []string{"Untitled"}, titles(t, f.db, url.Values{"likes_count": {"0"}}))
	assert.Empty(t, titles(t, f.db, url.Values{"likes_count": {"1.5"}}))
	assert.Equal(t, []string{"First Post"}, titles(t, f.db, url.Values{"likes_count": {"2"}, "tags__name": {"lang"}}))
}

func TestApplyCreatedAt(t *testing.T) {
	f := newFixture(t)

	after := url.Values{"created_at__gt": {f.first.CreatedAt.Format(time.RFC3339)}}
	assert.Equal(t, []string{"Second POST", "Untitled"}, titles(t, f.db, after))

	before := url.Values{"created_at__lt": {f.third.CreatedAt.Format("2006-01-02 15:04:05")}}
	assert.Equal(t, []string{"First Post", "Second POST"}, titles(t, f.db, before))

	between := url.Values{
		"created_at__gt": {f.first.CreatedAt.Format("2006-01-02T15:04:05")},
		"created_at__lt": {f.third.CreatedAt.Format(time.RFC3339)},
	}
	assert.Equal(t, []string{"Second POST"}, titles(t, f.db, between))

	assert.Empty(t, titles(t, f.db, url.Values{"created_at__lt": {"2000-01-01"}}))
}

func TestApplyEscapesWildcards(t *testing.T) {
	db := dbtest.Open(t)
	ana := dbtest.User(t, db, "ana", "", "")
	dbtest.Post(t, db, ana, "100% real", nil)
	dbtest.Post(t, db, ana, "1000 real", nil)
	dbtest.Post(t, db, ana, "snake_case", nil)
	dbtest.Post(t, db, ana, "snakeXcase", nil)

	assert.Equal(t, []string{"100% real"}, titles(t, db, url.Values{"title": {"0%"}}))
	assert.Equal(t, []string{"snake_case"}, titles(t, db, url.Values{"title": {"e_c"}}))
}

func TestApplyIgnoresInvalidValues(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		params url.Values
		want   []string
	}{
		{"bad timestamp", url.Values{"created_at__gt": {"not-a-date"}, "title": {"first"}}, []string{"First Post"}},
		{"bad upper bound", url.Values{"created_at__lt": {"yesterday"}}, []string{"First Post", "Second POST", "Untitled"}},
		{"bad count", url.Values{"likes_count": {"many"}, "author__first_name": {"bob"}}, []string{"Second POST"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(t, f.db, tt.params))
		})
	}
}

func TestApplyFoldsNonASCII(t *testing.T) {
	db := dbtest.Open(t)
	ana := dbtest.User(t, db, "ana", "Élodie", "Øster")
	travel := dbtest.Category(t, db, "Über")
	dbtest.Post(t, db, ana, "Élan vital", travel)
	dbtest.Post(t, db, ana, "Plain", nil)

	for _, value := range []string{"élan", "Élan", "ÉLAN VITAL"} {
		assert.Equal(t, []string{"Élan vital"}, titles(t, db, url.Values{"title": {value}}), value)
	}
	assert.Equal(t, []string{"Élan vital", "Plain"}, titles(t, db, url.Values{"author__first_name": {"élodie"}}))
	assert.Equal(t, []string{"Élan vital", "Plain"}, titles(t, db, url.Values{"author__last_name": {"ØSTER"}}))
	assert.Equal(t, []string{"Élan vital"}, titles(t, db, url.Values{"category__name": {"über"}}))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2024-01-02T10:00:00", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
		{"2024-01-02 10:00:00.5", time.Date(2024, 1, 2, 10, 0, 0, 500_000_000, time.UTC)},
		{"2024-01-02T10:00:00+02:00", time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)},
		{"2024-01-02T10:00:00.25Z", time.Date(2024, 1, 2, 10, 0, 0, 250_000_000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := filters.ParseTimestamp(tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := filters.ParseTimestamp("02/01/2024")
	assert.Error(t, err)
}
