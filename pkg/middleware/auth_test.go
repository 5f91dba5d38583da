package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ride-hailing/internal/data/entity"
	"ride-hailing/internal/data/repository"
	"ride-hailing/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type stubUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*entity.User
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return s.users[id], nil
}

func newUser(role entity.UserRole, status entity.AccountStatus) *entity.User {
	return &entity.User{
		Base:          entity.Base{ID: uuid.New()},
		Email:         "u@example.com",
		Role:          role,
		AccountStatus: status,
	}
}

func protected(repo repository.UserRepository, roles ...string) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := utils.GetUserIDFromContext(r.Context())
		role, _ := utils.GetRoleFromContext(r.Context())
		w.Header().Set("X-User", id.String())
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	})

	var h http.Handler = final
	if len(roles) > 0 {
		h = RequireRoles(roles...)(h)
	}
	return JWTAuth(testSecret, repo, zap.NewNop())(h)
}

func tokenFor(t *testing.T, user *entity.User) string {
	t.Helper()
	token, _, err := utils.GenerateToken(testSecret, user.ID, string(user.Role), time.Hour)
	require.NoError(t, err)
	return token
}

func TestJWTAuth(t *testing.T) {
	active := newUser(entity.RoleRider, entity.AccountActive)
	inactive := newUser(entity.RoleDriver, entity.AccountInactive)
	repo := &stubUserRepo{users: map[uuid.UUID]*entity.User{
		active.ID:   active,
		inactive.ID: inactive,
	}}

	otherSecret, _, err := utils.GenerateToken("another-secret", active.ID, "rider", time.Hour)
	require.NoError(t, err)
	expired, _, err := utils.GenerateToken(testSecret, active.ID, "rider", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }, http.StatusUnauthorized},
		{"wrong secret", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+otherSecret) }, http.StatusUnauthorized},
		{"expired", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) }, http.StatusUnauthorized},
		{"inactive user", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tokenFor(t, inactive)) }, http.StatusUnauthorized},
		{"unknown user", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+tokenFor(t, newUser(entity.RoleRider, entity.AccountActive)))
		}, http.StatusUnauthorized},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tokenFor(t, active)) }, http.StatusOK},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: utils.AccessTokenCookie, Value: tokenFor(t, active)})
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			protected(repo).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, active.ID.String(), rec.Header().Get("X-User"))
				assert.Equal(t, "rider", rec.Header().Get("X-Role"))
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	rider := newUser(entity.RoleRider, entity.AccountActive)
	admin := newUser(entity.RoleAdmin, entity.AccountActive)
	repo := &stubUserRepo{users: map[uuid.UUID]*entity.User{rider.ID: rider, admin.ID: admin}}

	h := protected(repo, "admin")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, rider))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, admin))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
