package api

import (
	"errors"
	"net/http"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/errs"
	"github.com/rpupo63/blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type likeHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo *database.BlogPostRepo
	likeRepo     *database.LikeRepo
}

func newLikeHandler(db database.Database) likeHandler {
	logger := log.With().Str("handlerName", "likeHandler").Logger()

	return likeHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		blogPostRepo: db.BlogPostRepo(),
		likeRepo:     db.LikeRepo(),
	}
}

// listLikes returns who liked a post, oldest first
// @Summary List likes
// @Description Returns the like count of a blog post and every like, oldest first
// @Tags Likes
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Success 200 {object} likesResponse "Like count and likes"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 404 "Not Found - Blog post not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching likes"
// @Router /blogs/{blogPostID}/likes [get]
func (h likeHandler) listLikes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPost, ok := findBlogPost(w, r, h.blogPostRepo, h.responder)
		if !ok {
			return
		}

		count, err := h.blogPostRepo.CountLikes(r.Context(), blogPost.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "likes", err))
			return
		}
		likes, err := h.likeRepo.FindByPost(r.Context(), blogPost.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "likes", err))
			return
		}
		if likes == nil {
			likes = []*models.Like{}
		}

		h.responder.WriteJSON(w, http.StatusOK, likesResponse{Count: count, Results: likes})
	}
}

// likeBlogPost records that the requester likes the post
// @Summary Like blog post
// @Description Records a like by the requester. A user likes a post at most once.
// @Tags Likes
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Success 201 {object} models.Like "Created like"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 404 "Not Found - Blog post not found"
// @Failure 409 {object} ErrorResponse "Conflict - Blog post already liked"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating like"
// @Router /blogs/{blogPostID}/likes [post]
func (h likeHandler) likeBlogPost() http.HandlerFunc {
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

		like := &models.Like{BlogPostID: blogPost.ID, UserID: user.ID}
		if err := h.likeRepo.Add(r.Context(), like); err != nil {
			if errs.IsDuplicateKey(err) {
				h.responder.WriteError(w, errs.NewAlreadyExists("like"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("create", "like", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusCreated, like)
	}
}

// unlikeBlogPost removes the requester's like
// @Summary Unlike blog post
// @Description Removes the like the requester gave the post
// @Tags Likes
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Success 204 "Like removed"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post or like not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error deleting like"
// @Router /blogs/{blogPostID}/likes [delete]
func (h likeHandler) unlikeBlogPost() http.HandlerFunc {
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

		err = h.likeRepo.Delete(r.Context(), blogPost.ID, user.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewNotFound("like"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "like", err))
			return
		}

		h.responder.WriteEmpty(w, http.StatusNoContent)
	}
}
