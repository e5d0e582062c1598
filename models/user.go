package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func FindUserByEmail(db *gorm.DB, email string) (*User, error) {
	return findUser(db, "email = ?", email)
}

func FindUserByID(db *gorm.DB, id string) (*User, error) {
	return findUser(db, "id = ?", id)
}

func findUser(db *gorm.DB, query string, arg string) (*User, error) {
	var user User
	if err := db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
