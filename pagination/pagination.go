// Package pagination slices an ordered query into fixed-size, numbered pages.
package pagination

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rpupo63/blog-backend/errs"
	"gorm.io/gorm"
)

const (
	// PageParam selects the page number.
	PageParam = "page"

	DefaultPageSize = 10
)

// ErrInvalidPage is returned for a page number that is not a positive
// integer or lies past the last page.
var ErrInvalidPage = errs.NewNotFoundError("invalid page")

// Page describes one slice of a result set.
type Page struct {
	Number int
	Size   int
	Count  int64
}

func (p Page) LastPage() int {
	if p.Count == 0 {
		return 1
	}
	return int((p.Count + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page) HasNext() bool {
	return p.Number < p.LastPage()
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// ParsePage reads the page number from params. Absent means the first page.
func ParsePage(params url.Values) (int, error) {
	raw := strings.TrimSpace(params.Get(PageParam))
	if raw == "" {
		return 1, nil
	}
	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		return 0, ErrInvalidPage
	}
	return number, nil
}

// Paginate counts base and loads the requested page into dest. scopes apply
// to the page query only (ordering, preloads). The first page always exists,
// even when base matches nothing.
func Paginate(base *gorm.DB, number, size int, dest any, scopes ...func(*gorm.DB) *gorm.DB) (Page, error) {
	if size < 1 {
		size = DefaultPageSize
	}
	page := Page{Number: number, Size: size}

	if number < 1 {
		return page, ErrInvalidPage
	}

	if err := base.Session(&gorm.Session{}).Count(&page.Count).Error; err != nil {
		return page, err
	}
	if number > page.LastPage() {
		return page, ErrInvalidPage
	}

	err := base.Session(&gorm.Session{}).
		Scopes(scopes...).
		Limit(size).
		Offset((number - 1) * size).
		Find(dest).Error
	return page, err
}

// Response is the envelope of a paginated collection.
type Response[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewResponse builds the envelope. Links are derived from requestURL, which
// must be absolute; every other query parameter is preserved and the link to
// the first page carries no page parameter.
func NewResponse[T any](page Page, requestURL *url.URL, results []T) Response[T] {
	if results == nil {
		results = []T{}
	}
	response := Response[T]{Count: page.Count, Results: results}
	if page.HasNext() {
		response.Next = pageURL(requestURL, page.Number+1)
	}
	if page.HasPrevious() {
		response.Previous = pageURL(requestURL, page.Number-1)
	}
	return response
}

func pageURL(requestURL *url.URL, number int) *string {
	u := *requestURL
	query := u.Query()
	if number == 1 {
		query.Del(PageParam)
	} else {
		query.Set(PageParam, strconv.Itoa(number))
	}
	u.RawQuery = query.Encode()
	link := u.String()
	return &link
}
