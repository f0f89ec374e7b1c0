package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public read path and the owner-only write path.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.identify)

		r.Post("/auth/login", handlers.authHandler.login())

		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{slug}", handlers.projectHandler.getProject())

		r.Get("/blog", handlers.blogPostHandler.listPosts())
		r.Get("/blog/rss.xml", handlers.blogPostHandler.rss())
		r.Get("/blog/tags", handlers.blogPostHandler.listTags())
		r.Get("/blog/{slug}", handlers.blogPostHandler.getPost())

		r.Get("/resume", handlers.siteHandler.downloadResume())
		r.Post("/contact", handlers.siteHandler.contact())
	})

	// Owner-only routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Get("/admin/dashboard", handlers.siteHandler.dashboard())
		r.Post("/admin/resume", handlers.siteHandler.uploadResume())

		r.Post("/admin/projects", handlers.projectHandler.createProject())
		r.Put("/admin/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/admin/projects/{projectID}", handlers.projectHandler.deleteProject())

		r.Get("/admin/blog", handlers.blogPostHandler.listAllPosts())
		r.Post("/admin/blog", handlers.blogPostHandler.createPost())
		r.Put("/admin/blog/{blogPostID}", handlers.blogPostHandler.updatePost())
		r.Delete("/admin/blog/{blogPostID}", handlers.blogPostHandler.deletePost())
	})
}
