package api

import (
	"github.com/angelbv/cvweb-backend/database"
	"github.com/angelbv/cvweb-backend/services"
	"github.com/angelbv/cvweb-backend/uploads"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, store *uploads.Store, c map[string]string) *routeHandlers {
	db := database.GORM()
	return &routeHandlers{
		authHandler:     newAuthHandler(database.UserRepo(), c),
		projectHandler:  newProjectHandler(database.ProjectRepo(), services.NewProjectService(db, store)),
		blogPostHandler: newBlogPostHandler(database.BlogPostRepo(), database.BlogTagRepo(), services.NewBlogService(db, store), c),
		siteHandler:     newSiteHandler(database.ProjectRepo(), database.BlogPostRepo(), services.NewResumeService(store), c),
	}
}
