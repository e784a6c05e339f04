// Package filters narrows a blog post query by request query parameters.
//
// Every supported parameter maps to one predicate. Supplied predicates are
// combined with AND. Empty or unparseable values and unknown parameters are
// ignored.
// Relation filters use IN (subquery) so a post matching through several
// tags still appears once.
package filters

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type predicate func(db *gorm.DB, value string) (*gorm.DB, error)

// Param names accepted on the blog post collection.
const (
	Title           = "title"
	Content         = "content"
	AuthorFirstName = "author__first_name"
	AuthorLastName  = "author__last_name"
	CategoryName    = "category__name"
	TagsName        = "tags__name"
	CreatedAfter    = "created_at__gt"
	CreatedBefore   = "created_at__lt"
	LikesCount      = "likes_count"
)

var blogPostFilters = map[string]predicate{
	Title:           contains("blog_posts.title"),
	Content:         contains("blog_posts.content"),
	AuthorFirstName: relatedContains("blog_posts.author_id IN (SELECT users.id FROM users WHERE LOWER(users.first_name) LIKE LOWER(?) ESCAPE '\\')"),
	AuthorLastName:  relatedContains("blog_posts.author_id IN (SELECT users.id FROM users WHERE LOWER(users.last_name) LIKE LOWER(?) ESCAPE '\\')"),
	CategoryName:    relatedContains("blog_posts.category_id IN (SELECT categories.id FROM categories WHERE LOWER(categories.name) LIKE LOWER(?) ESCAPE '\\')"),
	TagsName:        relatedContains("blog_posts.id IN (SELECT post_tags.blog_post_id FROM post_tags JOIN tags ON tags.id = post_tags.tag_id WHERE LOWER(tags.name) LIKE LOWER(?) ESCAPE '\\')"),
	CreatedAfter:    createdAt(">"),
	CreatedBefore:   createdAt("<"),
	LikesCount:      likesCount,
}

// order is the sequence predicates are applied in, so generated SQL is stable.
var order = []string{
	Title, Content, AuthorFirstName, AuthorLastName, CategoryName, TagsName,
	CreatedAfter, CreatedBefore, LikesCount,
}

// Apply narrows db by every supported, non-empty parameter in params. A
// value that does not parse imposes no constraint.
func Apply(db *gorm.DB, params url.Values) *gorm.DB {
	for _, name := range order {
		value := strings.TrimSpace(params.Get(name))
		if value == "" {
			continue
		}
		narrowed, err := blogPostFilters[name](db, value)
		if err != nil {
			log.Debug().Err(err).Str("param", name).Str("value", value).Msg("ignoring invalid filter value")
			continue
		}
		db = narrowed
	}
	return db
}

func contains(column string) predicate {
	return func(db *gorm.DB, value string) (*gorm.DB, error) {
		return db.Where(fmt.Sprintf("LOWER(%s) LIKE LOWER(?) ESCAPE '\\'", column), likePattern(value)), nil
	}
}

func relatedContains(condition string) predicate {
	return func(db *gorm.DB, value string) (*gorm.DB, error) {
		return db.Where(condition, likePattern(value)), nil
	}
}

func createdAt(operator string) predicate {
	return func(db *gorm.DB, value string) (*gorm.DB, error) {
		ts, err := ParseTimestamp(value)
		if err != nil {
			return nil, err
		}
		return db.Where("blog_posts.created_at "+operator+" ?", ts), nil
	}
}

func likesCount(db *gorm.DB, value string) (*gorm.DB, error) {
	count, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, errInvalidNumber
	}
	if count != float64(int64(count)) {
		// a fractional count never matches
		return db.Where("1 = 0"), nil
	}
	return db.Where("(SELECT COUNT(*) FROM likes WHERE likes.blog_post_id = blog_posts.id) = ?", int64(count)), nil
}

var (
	errInvalidNumber    = errors.New("a valid number is required")
	errInvalidTimestamp = errors.New("enter a valid date/time")
)

// Fractional seconds are accepted by every date-time layout when parsing.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and zone-less date or date-time values.
// Zone-less values are UTC. The result is always in UTC.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, errInvalidTimestamp
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern escapes LIKE wildcards and wraps value for a substring match.
// Case is folded in SQL on both sides of the comparison.
func likePattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
