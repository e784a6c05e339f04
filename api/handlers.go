package api

import (
	"time"

	"github.com/rpupo63/blog-backend/auth"
	"github.com/rpupo63/blog-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, issuer *auth.TokenIssuer, pageSize int, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		blogPostHandler: newBlogPostHandler(db, pageSize),
		likeHandler:     newLikeHandler(db),
		commentHandler:  newCommentHandler(db, pageSize),
		taxonomyHandler: newTaxonomyHandler(db),
		userHandler:     newUserHandler(db),
		authHandler:     newAuthHandler(db, issuer),
		healthHandler:   newHealthHandler(db, startupTime),
	}
}
