package permissions

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-backend/models"
	"github.com/stretchr/testify/assert"
)

func TestIsOwner(t *testing.T) {
	author := uuid.New()
	post := models.BlogPost{AuthorID: author}

	assert.True(t, IsOwner(author, post))
	assert.False(t, IsOwner(uuid.New(), post))
	assert.False(t, IsOwner(uuid.Nil, models.BlogPost{}))
	assert.False(t, IsOwner(author, nil))
	assert.True(t, IsOwner(author, &models.Comment{AuthorID: author}))
}

func TestCanModify(t *testing.T) {
	author, stranger := uuid.New(), uuid.New()
	post := models.BlogPost{AuthorID: author}

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		assert.True(t, CanModify(method, stranger, post), method)
	}
	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		assert.True(t, CanModify(method, author, post), method)
		assert.False(t, CanModify(method, stranger, post), method)
	}
}
