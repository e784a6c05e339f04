package pagination_test

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/database/dbtest"
	"github.com/rpupo63/blog-backend/errs"
	"github.com/rpupo63/blog-backend/models"
	"github.com/rpupo63/blog-backend/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	number, err := pagination.ParsePage(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, number)

	number, err = pagination.ParsePage(url.Values{"page": {" 3 "}})
	require.NoError(t, err)
	assert.Equal(t, 3, number)

	for _, raw := range []string{"abc", "0", "-1", "1.5"} {
		_, err := pagination.ParsePage(url.Values{"page": {raw}})
		assert.ErrorIs(t, err, pagination.ErrInvalidPage, raw)
		assert.True(t, errs.IsNotFound(err), raw)
	}
}

func TestPage(t *testing.T) {
	assert.Equal(t, 1, pagination.Page{Size: 10}.LastPage())
	assert.Equal(t, 1, pagination.Page{Size: 10, Count: 10}.LastPage())
	assert.Equal(t, 2, pagination.Page{Size: 10, Count: 11}.LastPage())

	first := pagination.Page{Number: 1, Size: 10, Count: 11}
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())

	second := pagination.Page{Number: 2, Size: 10, Count: 11}
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrevious())
}

func TestPaginate(t *testing.T) {
	db := dbtest.Open(t)
	ana := dbtest.User(t, db, "ana", "", "")
	for i := 1; i <= 11; i++ {
		dbtest.Post(t, db, ana, fmt.Sprintf("Post %02d", i), nil)
	}
	base := database.NewBlogPostRepo(db).Query(context.Background())

	var firstPage []models.BlogPost
	page, err := pagination.Paginate(base, 1, 10, &firstPage, database.OrderedByCreation)
	require.NoError(t, err)
	assert.EqualValues(t, 11, page.Count)
	require.Len(t, firstPage, 10)
	assert.Equal(t, "Post 01", firstPage[0].Title)
	assert.True(t, page.HasNext())

	var secondPage []models.BlogPost
	page, err = pagination.Paginate(base, 2, 10, &secondPage, database.OrderedByCreation)
	require.NoError(t, err)
	require.Len(t, secondPage, 1)
	assert.Equal(t, "Post 11", secondPage[0].Title)
	assert.False(t, page.HasNext())
	assert.True(t, page.HasPrevious())

	var thirdPage []models.BlogPost
	_, err = pagination.Paginate(base, 3, 10, &thirdPage, database.OrderedByCreation)
	assert.ErrorIs(t, err, pagination.ErrInvalidPage)
}

func TestPaginateEmpty(t *testing.T) {
	db := dbtest.Open(t)
	base := database.NewBlogPostRepo(db).Query(context.Background())

	var posts []models.BlogPost
	page, err := pagination.Paginate(base, 1, 10, &posts)
	require.NoError(t, err)
	assert.Zero(t, page.Count)
	assert.Empty(t, posts)
	assert.False(t, page.HasNext())

	_, err = pagination.Paginate(base, 2, 10, &posts)
	assert.ErrorIs(t, err, pagination.ErrInvalidPage)
}

func TestNewResponseLinks(t *testing.T) {
	requestURL, err := url.Parse("http://blog.test/blogs?page=2&title=go")
	require.NoError(t, err)

	response := pagination.NewResponse(pagination.Page{Number: 2, Size: 10, Count: 25}, requestURL, []string{"a"})
	assert.EqualValues(t, 25, response.Count)
	require.NotNil(t, response.Next)
	require.NotNil(t, response.Previous)
	assert.Equal(t, "http://blog.test/blogs?page=3&title=go", *response.Next)
	assert.Equal(t, "http://blog.test/blogs?title=go", *response.Previous)

	last := pagination.NewResponse[string](pagination.Page{Number: 1, Size: 10, Count: 0}, requestURL, nil)
	assert.Nil(t, last.Next)
	assert.Nil(t, last.Previous)
	assert.NotNil(t, last.Results)
	assert.Empty(t, last.Results)
}
