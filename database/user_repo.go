package database

import (
	"errors"

	"github.com/angelbv/cvweb-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByUsername returns the user with that username, or nil when absent.
func (r *UserRepo) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert creates the user or replaces an existing row's password hash.
// Used only by the administrative create-admin mode.
func (r *UserRepo) Upsert(user *models.User) error {
	existing, err := r.FindByUsername(user.Username)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(user).Error
	}
	existing.PasswordHash = user.PasswordHash
	return r.db.Save(existing).Error
}
