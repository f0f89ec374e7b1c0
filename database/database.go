package database

import (
	"gorm.io/gorm"
)

type Database struct {
	db           *gorm.DB
	userRepo     *UserRepo
	projectRepo  *ProjectRepo
	blogPostRepo *BlogPostRepo
	blogTagRepo  *BlogTagRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		userRepo:     NewUserRepo(db),
		projectRepo:  NewProjectRepo(db),
		blogPostRepo: NewBlogPostRepo(db),
		blogTagRepo:  NewBlogTagRepo(db),
	}
}

// GORM exposes the shared connection for transactional write paths.
func (d Database) GORM() *gorm.DB {
	return d.db
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) BlogTagRepo() *BlogTagRepo {
	return d.blogTagRepo
}
