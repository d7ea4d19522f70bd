package sql

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"faceauth/internal/biometric"
	"faceauth/internal/entity"
	"faceauth/internal/entity/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *GormRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&db.User{}, &db.LoginLog{}))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// one connection serialises writers, sqlite shared cache would otherwise report table locks
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewGormRepository(gdb)
}

func strPtr(s string) *string { return &s }

func seedUsers(t *testing.T, repo *GormRepository) (student, staff *db.User) {
	t.Helper()
	ctx := context.Background()
	student = &db.User{Username: "budi", NIS: strPtr("S001"), Role: string(entity.RoleStudent), PasswordHash: "x"}
	staff = &db.User{Username: "sari", Role: string(entity.RoleStaff), PasswordHash: "y"}
	require.NoError(t, repo.CreateUser(ctx, student))
	require.NoError(t, repo.CreateUser(ctx, staff))
	return student, staff
}

func testTemplate(seed float64) biometric.Template {
	var tmpl biometric.Template
	for i := range tmpl.Slots {
		e := make(biometric.Embedding, biometric.Dimensions)
		for j := range e {
			e[j] = seed + float64(i)/10 + float64(j)/1000
		}
		tmpl.Slots[i] = e
	}
	return tmpl
}

func TestFindUserByIdentifier(t *testing.T) {
	repo := newTestRepo(t)
	student, staff := seedUsers(t, repo)
	ctx := context.Background()

	byNIS, err := repo.FindUserByIdentifier(ctx, "S001")
	require.NoError(t, err)
	assert.Equal(t, student.ID, byNIS.ID)
	assert.Equal(t, entity.RoleStudent, byNIS.Role)
	assert.Equal(t, "x", byNIS.PasswordHash)

	byName, err := repo.FindUserByIdentifier(ctx, " sari ")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, byName.ID)

	_, err = repo.FindUserByIdentifier(ctx, "nobody")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestFindUserForEnrollmentKeysOnRole(t *testing.T) {
	repo := newTestRepo(t)
	student, staff := seedUsers(t, repo)
	ctx := context.Background()

	u, err := repo.FindUserForEnrollment(ctx, "S001", entity.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, student.ID, u.ID)

	// students are not found by username
	_, err = repo.FindUserForEnrollment(ctx, "budi", entity.RoleStudent)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	u, err = repo.FindUserForEnrollment(ctx, "sari", entity.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, u.ID)

	// wrong role does not match
	_, err = repo.FindUserForEnrollment(ctx, "sari", entity.RoleAdmin)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTemplateIsWriteOnce(t *testing.T) {
	repo := newTestRepo(t)
	student, _ := seedUsers(t, repo)
	ctx := context.Background()

	tmpl, err := repo.GetTemplate(ctx, student.ID)
	require.NoError(t, err)
	assert.Nil(t, tmpl)

	first := testTemplate(0.1)
	require.NoError(t, repo.SaveTemplate(ctx, student.ID, first))

	stored, err := repo.GetTemplate(ctx, student.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, first, *stored)

	err = repo.SaveTemplate(ctx, student.ID, testTemplate(0.9))
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	again, err := repo.GetTemplate(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, first, *again, "existing template must stay unchanged")
}

func TestSaveTemplateUnknownUser(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.SaveTemplate(context.Background(), 999, testTemplate(0.1))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSaveTemplateRejectsIncompleteTemplate(t *testing.T) {
	repo := newTestRepo(t)
	student, _ := seedUsers(t, repo)
	tmpl := testTemplate(0.1)
	tmpl.Slots[4] = nil

	err := repo.SaveTemplate(context.Background(), student.ID, tmpl)
	require.Error(t, err)

	stored, err := repo.GetTemplate(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestConcurrentEnrollmentHasOneWinner(t *testing.T) {
	repo := newTestRepo(t)
	student, _ := seedUsers(t, repo)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.SaveTemplate(ctx, student.ID, testTemplate(float64(i)))
		}(i)
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	}
	assert.Equal(t, 1, wins)
}

func TestLoginEventsAppendAndList(t *testing.T) {
	repo := newTestRepo(t)
	student, staff := seedUsers(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.AppendLoginEvent(ctx, &db.LoginLog{UserID: student.ID, LoginTime: fmt.Sprintf("2025-01-0%d 08:00:00", i+1)}))
	}
	require.NoError(t, repo.AppendLoginEvent(ctx, &db.LoginLog{UserID: staff.ID, LoginTime: "2025-01-05 08:00:00"}))
	assert.Error(t, repo.AppendLoginEvent(ctx, &db.LoginLog{UserID: student.ID}))

	logs, meta, err := repo.ListLoginEvents(ctx, &entity.LoginLogQuery{UserID: student.ID})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, int64(3), meta.Total)
	assert.Equal(t, "2025-01-03 08:00:00", logs[0].LoginTime)

	all, meta, err := repo.ListLoginEvents(ctx, &entity.LoginLogQuery{BaseParams: entity.BaseParams{Page: 2, PageSize: 3}})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, int64(4), meta.Total)
	assert.Equal(t, int64(2), meta.Page)
}

func TestNilRepository(t *testing.T) {
	var repo *GormRepository
	_, err := repo.GetUserByID(context.Background(), 1)
	assert.Error(t, err)
}
