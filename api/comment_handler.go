package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/errs"
	"github.com/rpupo63/blog-backend/models"
	"github.com/rpupo63/blog-backend/pagination"
	"github.com/rpupo63/blog-backend/permissions"
	"github.com/rpupo63/blog-backend/validator"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const msgForbiddenComment = "You do not have permission to modify this comment."

type commentHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo *database.BlogPostRepo
	commentRepo  *database.CommentRepo
	pageSize     int
}

func newCommentHandler(db database.Database, pageSize int) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		blogPostRepo: db.BlogPostRepo(),
		commentRepo:  db.CommentRepo(),
		pageSize:     pageSize,
	}
}

// listComments returns one page of a post's comments, oldest first
// @Summary List comments
// @Tags Comments
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Param page query int false "Page number"
// @Success 200 {object} pagination.Response[commentResponse] "Page of comments"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 404 "Not Found - Blog post not found or invalid page"
// @Router /blogs/{blogPostID}/comments [get]
func (h commentHandler) listComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPost, ok := findBlogPost(w, r, h.blogPostRepo, h.responder)
		if !ok {
			return
		}

		number, err := pagination.ParsePage(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var comments []*models.Comment
		query := h.commentRepo.QueryByPost(r.Context(), blogPost.ID)
		page, err := pagination.Paginate(query, number, h.pageSize, &comments, database.OrderedByCreation, database.WithAuthor)
		if err != nil {
			if errs.IsNotFound(err) {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "comments", err))
			return
		}

		results := make([]commentResponse, 0, len(comments))
		for _, comment := range comments {
			results = append(results, newCommentResponse(comment))
		}
		h.responder.WriteJSON(w, http.StatusOK, pagination.NewResponse(page, absoluteURL(r), results))
	}
}

// createComment adds a comment by the requester
// @Summary Create comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Param comment body commentPayload true "Comment"
// @Success 201 {object} commentResponse "Created comment"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 404 "Not Found - Blog post not found"
// @Router /blogs/{blogPostID}/comments [post]
func (h commentHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPost, ok := findBlogPost(w, r, h.blogPostRepo, h.responder)
		if !ok {
			return
		}
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		content, err := readCommentContent(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment := &models.Comment{Content: content, BlogPostID: blogPost.ID, AuthorID: user.ID}
		if err := h.commentRepo.Add(r.Context(), comment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "comment", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusCreated, newCommentResponse(comment))
	}
}

// updateComment changes the content of a comment
// @Summary Update comment
// @Description Only the comment's author may change it
// @Tags Comments
// @Accept json
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Param commentID path string true "Comment ID" format(uuid)
// @Param comment body commentPayload true "Comment"
// @Success 200 {object} commentResponse "Updated comment"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the author"
// @Failure 404 "Not Found - Blog post or comment not found"
// @Router /blogs/{blogPostID}/comments/{commentID} [patch]
func (h commentHandler) updateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comment, ok := h.findOwnedComment(w, r)
		if !ok {
			return
		}

		content, err := readCommentContent(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment.Content = content
		if err := h.commentRepo.UpdateContent(r.Context(), comment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "comment", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, newCommentResponse(comment))
	}
}

// @Summary Delete comment
// @Description Only the comment's author may delete it
// @Tags Comments
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Param commentID path string true "Comment ID" format(uuid)
// @Success 204 "Comment deleted"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the author"
// @Failure 404 "Not Found - Blog post or comment not found"
// @Router /blogs/{blogPostID}/comments/{commentID} [delete]
func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comment, ok := h.findOwnedComment(w, r)
		if !ok {
			return
		}

		if err := h.commentRepo.Delete(r.Context(), comment.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "comment", err))
			return
		}

		h.responder.WriteEmpty(w, http.StatusNoContent)
	}
}

func (h commentHandler) findOwnedComment(w http.ResponseWriter, r *http.Request) (*models.Comment, bool) {
	blogPost, ok := findBlogPost(w, r, h.blogPostRepo, h.responder)
	if !ok {
		return nil, false
	}

	commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		h.responder.WriteEmpty(w, http.StatusNotFound)
		return nil, false
	}
	comment, err := h.commentRepo.FindByID(r.Context(), blogPost.ID, commentID)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "comment", err))
		return nil, false
	}
	if comment == nil {
		h.responder.WriteEmpty(w, http.StatusNotFound)
		return nil, false
	}

	user, err := ctxGetUser(r.Context())
	if err != nil {
		h.responder.WriteError(w, errs.Unauthorized)
		return nil, false
	}
	if !permissions.CanModify(r.Method, user.ID, comment) {
		h.responder.WriteError(w, errs.NewForbiddenError(msgForbiddenComment))
		return nil, false
	}
	return comment, true
}

func readCommentContent(w http.ResponseWriter, r *http.Request) (string, error) {
	var payload commentPayload
	if err := readJSON(w, r, &payload); err != nil {
		return "", err
	}

	var content *string
	if payload.Content != nil {
		trimmed := strings.TrimSpace(*payload.Content)
		content = &trimmed
	}

	v := validator.New()
	v.RequiredString(content, "content")
	if err := v.Err(); err != nil {
		return "", err
	}
	return *content, nil
}
