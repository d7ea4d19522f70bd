package model

import (
	"context"
	"errors"
	"strings"

	"faceauth/internal/auth"
	"faceauth/internal/config"
	"faceauth/internal/entity"
	"faceauth/internal/entity/db"

	"github.com/sirupsen/logrus"
)

// SeedAdmin creates the bootstrap admin account when the users table is empty
// and SEED_ADMIN_USERNAME / SEED_ADMIN_PASSWORD are both set.
func SeedAdmin(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}
	username := strings.TrimSpace(cfg.SeedAdminUsername)
	password := cfg.SeedAdminPassword
	if username == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	count, err := repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := &db.User{
		Username:     username,
		Role:         string(entity.RoleAdmin),
		PasswordHash: hash,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return errors.Join(errors.New("seed admin"), err)
	}
	logrus.WithField("username", username).Info("seeded admin account")
	return nil
}
