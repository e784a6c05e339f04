package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/errs"
	"github.com/rpupo63/blog-backend/filters"
	"github.com/rpupo63/blog-backend/models"
	"github.com/rpupo63/blog-backend/pagination"
	"github.com/rpupo63/blog-backend/permissions"
	"github.com/rpupo63/blog-backend/validator"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	titleMaxLength = 255

	msgForbiddenPost = "You do not have permission to modify this blog post."
)

type blogPostHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo *database.BlogPostRepo
	categoryRepo *database.CategoryRepo
	tagRepo      *database.TagRepo
	pageSize     int
}

func newBlogPostHandler(db database.Database, pageSize int) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		blogPostRepo: db.BlogPostRepo(),
		categoryRepo: db.CategoryRepo(),
		tagRepo:      db.TagRepo(),
		pageSize:     pageSize,
	}
}

// listBlogPosts returns one page of the posts matching the query filters,
// oldest first.
// @Summary List blog posts
// @Description Returns one page of blog posts, oldest first, narrowed by the supplied filters
// @Tags Blog Posts
// @Produce json
// @Param title query string false "Title contains (case-insensitive)"
// @Param content query string false "Content contains (case-insensitive)"
// @Param author__first_name query string false "Author first name contains"
// @Param author__last_name query string false "Author last name contains"
// @Param category__name query string false "Category name contains"
// @Param tags__name query string false "Any tag name contains"
// @Param created_at__gt query string false "Created after" format(date-time)
// @Param created_at__lt query string false "Created before" format(date-time)
// @Param likes_count query int false "Exact number of likes"
// @Param page query int false "Page number"
// @Success 200 {object} pagination.Response[blogPostResponse] "Page of blog posts"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 404 {object} ErrorResponse "Not Found - Invalid page"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching blog posts"
// @Router /blogs [get]
func (h blogPostHandler) listBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()

		query := filters.Apply(h.blogPostRepo.Query(r.Context()), params)

		number, err := pagination.ParsePage(params)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var blogPosts []*models.BlogPost
		page, err := pagination.Paginate(query, number, h.pageSize, &blogPosts, database.OrderedByCreation, database.WithRelations)
		if err != nil {
			if errs.IsNotFound(err) {
				h.responder.WriteError(w, err)
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "blog posts", err))
			return
		}

		results := make([]blogPostResponse, 0, len(blogPosts))
		for _, blogPost := range blogPosts {
			results = append(results, newBlogPostResponse(blogPost))
		}

		h.responder.WriteJSON(w, http.StatusOK, pagination.NewResponse(page, absoluteURL(r), results))
	}
}

// createBlogPost creates a new blog post authored by the requester
// @Summary Create blog post
// @Description Creates a blog post authored by the requester, with an optional category and tags
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param blogPost body blogPostPayload true "Blog post"
// @Success 201 {object} blogPostResponse "Created blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 409 {object} ErrorResponse "Conflict - Tag assigned twice"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error creating blog post"
// @Router /blogs [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var payload blogPostPayload
		if err := readJSON(w, r, &payload); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input, err := h.validatePayload(r.Context(), payload, false)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blogPost := &models.BlogPost{
			Title:      *input.title,
			Content:    *input.content,
			AuthorID:   user.ID,
			CategoryID: input.categoryID,
		}
		if err := h.blogPostRepo.Add(r.Context(), blogPost, input.tagIDs()); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "blog post", err))
			return
		}

		h.logger.Info().Str("blogPostID", blogPost.ID.String()).Str("author", user.Username).Msg("blog post created")
		h.responder.WriteJSON(w, http.StatusCreated, newBlogPostResponse(blogPost))
	}
}

// getBlogPost retrieves a blog post by ID
// @Summary Get blog post
// @Tags Blog Posts
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Success 200 {object} blogPostResponse "Blog post"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 404 "Not Found - Blog post not found"
// @Router /blogs/{blogPostID} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPost, ok := findBlogPost(w, r, h.blogPostRepo, h.responder)
		if !ok {
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, newBlogPostResponse(blogPost))
	}
}

// replaceBlogPost replaces every mutable field. An omitted category or tag
// list clears it.
// @Summary Replace blog post
// @Description Replaces title, content, category and tags. Only the author may replace a post.
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Param blogPost body blogPostPayload true "Blog post"
// @Success 200 {object} blogPostResponse "Replaced blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the author"
// @Failure 404 "Not Found - Blog post not found"
// @Failure 409 {object} ErrorResponse "Conflict - Tag assigned twice"
// @Router /blogs/{blogPostID} [put]
func (h blogPostHandler) replaceBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPost, ok := h.findOwnedBlogPost(w, r)
		if !ok {
			return
		}

		var payload blogPostPayload
		if err := readJSON(w, r, &payload); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input, err := h.validatePayload(r.Context(), payload, false)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blogPost.Title = *input.title
		blogPost.Content = *input.content
		blogPost.CategoryID = input.categoryID
		tagIDs := input.tagIDs()

		update := database.PostUpdate{
			Columns: []string{"title", "content", "category_id"},
			Tags:    &tagIDs,
		}
		if err := h.blogPostRepo.Update(r.Context(), blogPost, update); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "blog post", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, newBlogPostResponse(blogPost))
	}
}

// updateBlogPost changes only the supplied fields.
// @Summary Update blog post
// @Description Changes only the supplied fields. Only the author may update a post.
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Param blogPost body blogPostPayload true "Fields to change"
// @Success 200 {object} blogPostResponse "Updated blog post"
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the author"
// @Failure 404 "Not Found - Blog post not found"
// @Failure 409 {object} ErrorResponse "Conflict - Tag assigned twice"
// @Router /blogs/{blogPostID} [patch]
func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPost, ok := h.findOwnedBlogPost(w, r)
		if !ok {
			return
		}

		var payload blogPostPayload
		if err := readJSON(w, r, &payload); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input, err := h.validatePayload(r.Context(), payload, true)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var update database.PostUpdate
		if input.title != nil {
			blogPost.Title = *input.title
			update.Columns = append(update.Columns, "title")
		}
		if input.content != nil {
			blogPost.Content = *input.content
			update.Columns = append(update.Columns, "content")
		}
		if input.categorySet {
			blogPost.CategoryID = input.categoryID
			update.Columns = append(update.Columns, "category_id")
		}
		if input.tags != nil {
			tagIDs := input.tagIDs()
			update.Tags = &tagIDs
		}

		if err := h.blogPostRepo.Update(r.Context(), blogPost, update); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "blog post", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, newBlogPostResponse(blogPost))
	}
}

// deleteBlogPost removes a post together with its dependents
// @Summary Delete blog post
// @Description Deletes a blog post with its comments, likes and tag assignments. Only the author may delete a post.
// @Tags Blog Posts
// @Param blogPostID path string true "Blog Post ID" format(uuid)
// @Success 204 "Blog post deleted"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the author"
// @Failure 404 "Not Found - Blog post not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error deleting blog post"
// @Router /blogs/{blogPostID} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPost, ok := h.findOwnedBlogPost(w, r)
		if !ok {
			return
		}

		if err := h.blogPostRepo.Delete(r.Context(), blogPost.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "blog post", err))
			return
		}

		h.logger.Info().Str("blogPostID", blogPost.ID.String()).Msg("blog post deleted")
		h.responder.WriteEmpty(w, http.StatusNoContent)
	}
}

// findOwnedBlogPost resolves the post and rejects requesters who do not own it.
func (h blogPostHandler) findOwnedBlogPost(w http.ResponseWriter, r *http.Request) (*models.BlogPost, bool) {
	blogPost, ok := findBlogPost(w, r, h.blogPostRepo, h.responder)
	if !ok {
		return nil, false
	}

	user, err := ctxGetUser(r.Context())
	if err != nil {
		h.responder.WriteError(w, errs.Unauthorized)
		return nil, false
	}
	if !permissions.CanModify(r.Method, user.ID, blogPost) {
		h.responder.WriteError(w, errs.NewForbiddenError(msgForbiddenPost))
		return nil, false
	}
	return blogPost, true
}

// findBlogPost resolves the {blogPostID} URL parameter. A malformed or
// unknown id is answered with an empty 404.
func findBlogPost(w http.ResponseWriter, r *http.Request, repo *database.BlogPostRepo, responder Responder) (*models.BlogPost, bool) {
	blogPostID, err := uuid.Parse(chi.URLParam(r, "blogPostID"))
	if err != nil {
		responder.WriteEmpty(w, http.StatusNotFound)
		return nil, false
	}

	blogPost, err := repo.FindByID(r.Context(), blogPostID)
	if err != nil {
		responder.WriteError(w, wrapDatabaseError("find", "blog post", err))
		return nil, false
	}
	if blogPost == nil {
		responder.WriteEmpty(w, http.StatusNotFound)
		return nil, false
	}
	return blogPost, true
}

// postInput is a validated blog post payload. Absent fields are nil.
type postInput struct {
	title       *string
	content     *string
	categorySet bool
	categoryID  *uuid.UUID
	tags        []uuid.UUID
}

func (in postInput) tagIDs() []uuid.UUID {
	if in.tags == nil {
		return []uuid.UUID{}
	}
	return in.tags
}

// validatePayload checks a payload and resolves its references. When partial
// is false title and content are required.
func (h blogPostHandler) validatePayload(ctx context.Context, payload blogPostPayload, partial bool) (postInput, error) {
	v := validator.New()
	var input postInput

	if payload.Title != nil {
		title := strings.TrimSpace(*payload.Title)
		input.title = &title
	}
	if payload.Content != nil {
		content := strings.TrimSpace(*payload.Content)
		input.content = &content
	}

	if partial {
		v.NotBlank(input.title, "title")
		v.NotBlank(input.content, "content")
	} else {
		v.RequiredString(input.title, "title")
		v.RequiredString(input.content, "content")
	}
	v.MaxLength(input.title, titleMaxLength, "title")

	if payload.Category.Set {
		input.categorySet = true
		switch {
		case payload.Category.Null:
		case payload.Category.Invalid:
			v.AddError("category", "Incorrect type. Expected pk value.")
		default:
			categoryID, err := uuid.Parse(payload.Category.Value)
			if err != nil {
				v.AddError("category", fmt.Sprintf("“%s” is not a valid UUID.", payload.Category.Value))
				break
			}
			category, err := h.categoryRepo.FindByID(ctx, categoryID)
			if err != nil {
				return input, wrapDatabaseError("find", "category", err)
			}
			if category == nil {
				v.AddError("category", fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", categoryID))
				break
			}
			input.categoryID = &category.ID
		}
	}

	if payload.Tags.Set {
		switch {
		case payload.Tags.Null:
			v.AddError("tags", validator.MsgNull)
		case payload.Tags.Invalid != "":
			v.AddError("tags", payload.Tags.Invalid)
		default:
			tagIDs, err := h.resolveTags(ctx, payload.Tags.Values, v)
			if err != nil {
				return input, err
			}
			input.tags = tagIDs
		}
	}

	return input, v.Err()
}

// resolveTags parses the ids and checks that every tag exists. Order and
// repetitions are kept so a repeated tag reaches the store.
func (h blogPostHandler) resolveTags(ctx context.Context, raw []string, v *validator.Validator) ([]uuid.UUID, error) {
	tagIDs := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		tagID, err := uuid.Parse(value)
		if err != nil {
			v.AddError("tags", fmt.Sprintf("“%s” is not a valid UUID.", value))
			continue
		}
		tagIDs = append(tagIDs, tagID)
	}

	tags, err := h.tagRepo.FindByIDs(ctx, tagIDs)
	if err != nil {
		return nil, wrapDatabaseError("find", "tags", err)
	}
	existing := make(map[uuid.UUID]bool, len(tags))
	for _, tag := range tags {
		existing[tag.ID] = true
	}
	for _, tagID := range tagIDs {
		if !existing[tagID] {
			v.AddError("tags", fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", tagID))
		}
	}
	return tagIDs, nil
}
