package model

import (
	"context"
	"path/filepath"
	"testing"

	"faceauth/internal/auth"
	"faceauth/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRepositorySQLiteAndSeedAdmin(t *testing.T) {
	cfg := config.Config{
		DBType:            DBTypeSQLite,
		DBPath:            filepath.Join(t.TempDir(), "nested", "faceauth.db"),
		SeedAdminUsername: "root-admin",
		SeedAdminPassword: "ChangeMe123",
	}

	repo, closeFn, err := InitRepository(&cfg)
	require.NoError(t, err)
	defer closeFn()

	ctx := context.Background()
	require.NoError(t, SeedAdmin(ctx, repo, cfg))
	// seeding twice is a no-op
	require.NoError(t, SeedAdmin(ctx, repo, cfg))

	count, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	admin, err := repo.FindUserByIdentifier(ctx, "root-admin")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "ChangeMe123"))

	tmpl, err := repo.GetTemplate(ctx, admin.ID)
	require.NoError(t, err)
	assert.Nil(t, tmpl)
}

func TestSeedAdminSkippedWithoutCredentials(t *testing.T) {
	cfg := config.Config{DBType: DBTypeSQLite, DBPath: filepath.Join(t.TempDir(), "x.db")}
	repo, closeFn, err := InitRepository(&cfg)
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, SeedAdmin(context.Background(), repo, cfg))
	count, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInitRepositoryRejectsUnknownType(t *testing.T) {
	_, _, err := InitRepository(&config.Config{DBType: "oracle"})
	assert.ErrorContains(t, err, "unsupported database type")

	_, _, err = InitRepository(&config.Config{})
	assert.Error(t, err)
}
