package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"

	"faceauth/internal/auth"
	"faceauth/internal/biometric"
	"faceauth/internal/entity"
	"faceauth/internal/entity/db"
	"faceauth/internal/extractor"
	"faceauth/internal/model"

	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-memory model.Repository.
type memoryRepo struct {
	mu        sync.Mutex
	nextID    uint
	users     map[uint]*entity.User
	templates map[uint]biometric.Template
	logs      []db.LoginLog
	appendErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:     map[uint]*entity.User{},
		templates: map[uint]biometric.Template{},
	}
}

func (r *memoryRepo) FindUserByIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.NIS != "" && u.NIS == identifier {
			return u, nil
		}
	}
	for _, u := range r.users {
		if u.Username == identifier {
			return u, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *memoryRepo) FindUserForEnrollment(_ context.Context, identifier string, role entity.Role) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Role != role {
			continue
		}
		if role == entity.RoleStudent && u.NIS == identifier {
			return u, nil
		}
		if role != entity.RoleStudent && u.Username == identifier {
			return u, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *memoryRepo) GetUserByID(_ context.Context, id uint) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, model.ErrNotFound
}

func (r *memoryRepo) CreateUser(_ context.Context, user *db.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	nis := ""
	if user.NIS != nil {
		nis = *user.NIS
	}
	r.users[user.ID] = &entity.User{
		ID:           user.ID,
		Username:     user.Username,
		NIS:          nis,
		Role:         entity.Role(user.Role),
		PasswordHash: user.PasswordHash,
	}
	return nil
}

func (r *memoryRepo) CountUsers(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *memoryRepo) GetTemplate(_ context.Context, userID uint) (*biometric.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tmpl, ok := r.templates[userID]
	if !ok {
		return nil, nil
	}
	return &tmpl, nil
}

func (r *memoryRepo) SaveTemplate(_ context.Context, userID uint, tmpl biometric.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return model.ErrNotFound
	}
	if _, ok := r.templates[userID]; ok {
		return model.ErrAlreadyEnrolled
	}
	r.templates[userID] = tmpl
	return nil
}

func (r *memoryRepo) AppendLoginEvent(_ context.Context, event *db.LoginLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	event.ID = uint(len(r.logs) + 1)
	r.logs = append(r.logs, *event)
	return nil
}

func (r *memoryRepo) ListLoginEvents(_ context.Context, params *entity.LoginLogQuery) ([]db.LoginLog, *entity.Meta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db.LoginLog
	for _, l := range r.logs {
		if params == nil || params.UserID == 0 || params.UserID == l.UserID {
			out = append(out, l)
		}
	}
	return out, &entity.Meta{Page: 1, PageSize: int64(len(out)), Total: int64(len(out))}, nil
}

func (r *memoryRepo) logCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs)
}

func (r *memoryRepo) template(userID uint) (biometric.Template, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tmpl, ok := r.templates[userID]
	return tmpl, ok
}

var _ model.Repository = (*memoryRepo)(nil)

// faceImage encodes a solid colour PNG. The fake extractor derives the
// embedding from the red channel; red 0 means no face.
func faceImage(t *testing.T, red uint8) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: red, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// fakeExtractor maps red value r to an embedding whose only non-zero
// component is r/100, so two faces are |r1-r2|/100 apart.
type fakeExtractor struct {
	calls atomic.Int32
	err   error
}

func (f *fakeExtractor) Extract(_ context.Context, frame *extractor.Frame) ([]biometric.Embedding, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	red := frame.Pix[0]
	if red == 0 {
		return nil, nil
	}
	emb := make(biometric.Embedding, biometric.Dimensions)
	emb[1] = float64(red) / 100
	return []biometric.Embedding{emb}, nil
}

func (f *fakeExtractor) callCount() int {
	return int(f.calls.Load())
}

type fixture struct {
	repo      *memoryRepo
	extractor *fakeExtractor
	audit     *AuditLogger
	enroll    *EnrollmentService
	login     *AuthService
	student   *entity.User
	staff     *entity.User
}

const testPassword = "rahasia123"

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newMemoryRepo()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	ctx := context.Background()
	nis := "S001"
	studentRow := &db.User{Username: "budi", NIS: &nis, Role: string(entity.RoleStudent), PasswordHash: hash}
	staffRow := &db.User{Username: "sari", Role: string(entity.RoleStaff), PasswordHash: hash}
	require.NoError(t, repo.CreateUser(ctx, studentRow))
	require.NoError(t, repo.CreateUser(ctx, staffRow))

	ext := &fakeExtractor{}
	audit, err := NewAuditLogger(repo, "")
	require.NoError(t, err)

	f := &fixture{
		repo:      repo,
		extractor: ext,
		audit:     audit,
		enroll:    NewEnrollmentService(repo, ext, nil, nil),
		login:     NewAuthService(repo, ext, biometric.NewMatcher(biometric.Tolerance, biometric.StrategyPrimary), audit, nil),
	}
	f.student, err = repo.GetUserByID(ctx, studentRow.ID)
	require.NoError(t, err)
	f.staff, err = repo.GetUserByID(ctx, staffRow.ID)
	require.NoError(t, err)
	return f
}

func sameFaceSamples(t *testing.T, red uint8) []string {
	t.Helper()
	images := make([]string, biometric.SlotCount)
	for i := range images {
		images[i] = faceImage(t, red)
	}
	return images
}

func requireCode(t *testing.T, err error, code Code) *Error {
	t.Helper()
	require.Error(t, err)
	svcErr, ok := AsError(err)
	require.Truef(t, ok, "expected *service.Error, got %T: %v", err, err)
	require.Equal(t, code, svcErr.Code, svcErr.Error())
	return svcErr
}
