package service

import (
	"DocVault/internal/repo"
	"DocVault/model"
	"DocVault/utils"
	"errors"

	"gorm.io/gorm"
)

// CreateUser hashes the password and inserts the identity record. Email
// uniqueness is enforced by the store's unique index, not by a prior lookup,
// so concurrent signups for the same email cannot both succeed.
func CreateUser(name, email, password string) (*model.User, error) {
	hash, err := utils.GetPwd(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:     name,
		Email:    email,
		Password: hash,
	}
	if err := repo.Db.Create(user).Error; err != nil {
		if repo.IsDuplicateEntryError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// AuthenticateUser verifies email and password, reporting the same error
// for both failure modes.
func AuthenticateUser(email, password string) (*model.User, error) {
	var user model.User
	if err := repo.Db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPwd(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
