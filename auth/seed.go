package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/junaidrashid-git/modelstore-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const demoPassword = "pass123"

// SeedDemoUsers creates user1..user5@demo.com with the demo password. Users
// that already exist are left alone.
func SeedDemoUsers(db *gorm.DB, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	hash, err := HashPassword(demoPassword)
	if err != nil {
		return err
	}

	for i := 1; i <= 5; i++ {
		email := fmt.Sprintf("user%d@demo.com", i)
		if _, err := models.FindUserByEmail(db, email); err == nil {
			continue
		} else if !errors.Is(err, models.ErrUserNotFound) {
			return err
		}

		user := models.User{
			ID:           fmt.Sprintf("demo-user-%d", i),
			Name:         fmt.Sprintf("Usuario Demo %d", i),
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("seed %s: %w", email, err)
		}
		log.Info("👤 Seeded demo user", zap.String("email", email))
	}
	return nil
}
