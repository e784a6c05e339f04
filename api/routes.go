package api

import (
	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes registers the routes reachable without a token
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/healthz", handlers.healthHandler.health())
	r.Post("/auth/register", handlers.authHandler.register())
	r.Post("/auth/login", handlers.authHandler.login())
}

// setupAuthenticatedRoutes registers the routes that require a bearer token
func setupAuthenticatedRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		// Blog Post Handler endpoints
		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", handlers.blogPostHandler.listBlogPosts())
			r.Post("/", handlers.blogPostHandler.createBlogPost())

			r.Route("/{blogPostID}", func(r chi.Router) {
				r.Get("/", handlers.blogPostHandler.getBlogPost())
				r.Put("/", handlers.blogPostHandler.replaceBlogPost())
				r.Patch("/", handlers.blogPostHandler.updateBlogPost())
				r.Delete("/", handlers.blogPostHandler.deleteBlogPost())

				r.Get("/likes", handlers.likeHandler.listLikes())
				r.Post("/likes", handlers.likeHandler.likeBlogPost())
				r.Delete("/likes", handlers.likeHandler.unlikeBlogPost())

				r.Get("/comments", handlers.commentHandler.listComments())
				r.Post("/comments", handlers.commentHandler.createComment())
				r.Patch("/comments/{commentID}", handlers.commentHandler.updateComment())
				r.Delete("/comments/{commentID}", handlers.commentHandler.deleteComment())
			})
		})

		r.Get("/categories", handlers.taxonomyHandler.listCategories())
		r.Get("/tags", handlers.taxonomyHandler.listTags())
		r.Get("/users/{username}", handlers.userHandler.getUserProfile())
	})
}
