package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	blogPostHandler blogPostHandler
	likeHandler     likeHandler
	commentHandler  commentHandler
	taxonomyHandler taxonomyHandler
	userHandler     userHandler
	authHandler     authHandler
	healthHandler   healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string              `json:"error"`
	Status  string              `json:"status"`
	Field   string              `json:"field,omitempty"`
	Details string              `json:"details,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Cause   string              `json:"cause,omitempty"`
}

// optionalID distinguishes an absent field, an explicit null and a value.
// A non-string value is kept as Invalid so it can be reported per field.
type optionalID struct {
	Set     bool
	Null    bool
	Invalid bool
	Value   string
}

func (o *optionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		o.Invalid = true
	}
	return nil
}

// optionalIDList is the list counterpart of optionalID. Invalid holds the
// message for a value that is not a list of strings.
type optionalIDList struct {
	Set     bool
	Null    bool
	Invalid string
	Values  []string
}

func (o *optionalIDList) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	if err := json.Unmarshal(data, &o.Values); err != nil {
		o.Values = nil
		if len(data) > 0 && data[0] == '[' {
			o.Invalid = "Incorrect type. Expected pk value."
		} else {
			o.Invalid = fmt.Sprintf("Expected a list of items but got type %q.", jsonTypeName(data))
		}
	}
	return nil
}

func jsonTypeName(data []byte) string {
	switch {
	case len(data) == 0:
		return "unknown"
	case data[0] == '"':
		return "str"
	case data[0] == '{':
		return "dict"
	case data[0] == 't' || data[0] == 'f':
		return "bool"
	default:
		return "int"
	}
}

type blogPostPayload struct {
	Title    *string        `json:"title"`
	Content  *string        `json:"content"`
	Category optionalID     `json:"category"`
	Tags     optionalIDList `json:"tags"`
}

type blogPostResponse struct {
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Author    string      `json:"author"`
	Tags      []uuid.UUID `json:"tags"`
	Category  *uuid.UUID  `json:"category"`
}

func newBlogPostResponse(post *models.BlogPost) blogPostResponse {
	return blogPostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
		Author:    post.Author.Username,
		Tags:      post.TagIDs(),
		Category:  post.CategoryID,
	}
}

type commentPayload struct {
	Content *string `json:"content"`
}

type commentResponse struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    string    `json:"author"`
	Post      uuid.UUID `json:"post"`
}

func newCommentResponse(comment *models.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		Author:    comment.Author.Username,
		Post:      comment.BlogPostID,
	}
}

type likesResponse struct {
	Count   int64          `json:"count"`
	Results []*models.Like `json:"results"`
}

type userProfileResponse struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Blogs     []uuid.UUID `json:"blogs"`
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}
