package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ride-hailing/internal/adaptor"
	"ride-hailing/internal/data/entity"
	"ride-hailing/internal/data/repository"
	"ride-hailing/internal/dto/request"
	"ride-hailing/internal/dto/response"
	"ride-hailing/internal/usecase"
	"ride-hailing/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "wire-secret"

type stubUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*entity.User
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return s.users[id], nil
}

type stubRideService struct {
	usecase.RideService
}

func (stubRideService) GetAvailableRides(context.Context, uuid.UUID, *request.PaginatedRequest) ([]response.RideResponse, error) {
	return []response.RideResponse{}, nil
}

func (stubRideService) ListAllRides(_ context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RideResponse], error) {
	return response.NewPaginatedResponse([]response.RideResponse{}, req.Page, req.PerPage, 0), nil
}

type testRouter struct {
	handler http.Handler
	users   map[entity.UserRole]*entity.User
}

func newTestRouter(t *testing.T, opts ...func(*utils.Config)) *testRouter {
	t.Helper()

	users := map[entity.UserRole]*entity.User{}
	byID := map[uuid.UUID]*entity.User{}
	for _, role := range []entity.UserRole{entity.RoleRider, entity.RoleDriver, entity.RoleAdmin} {
		u := &entity.User{
			Base:          entity.Base{ID: uuid.New()},
			Email:         string(role) + "@example.com",
			Role:          role,
			AccountStatus: entity.AccountActive,
		}
		users[role] = u
		byID[u.ID] = u
	}

	config := &utils.Config{
		App: utils.AppConfig{CORSOrigins: []string{"http://localhost:3000"}},
		JWT: utils.JWTConfig{Secret: testSecret},
	}
	for _, opt := range opts {
		opt(config)
	}
	repo := &repository.Repository{User: &stubUserRepo{users: byID}}
	service := &usecase.Service{Ride: stubRideService{}}
	handler := adaptor.NewHandler(service, nil, config, zap.NewNop())

	return &testRouter{
		handler: setupRouter(handler, repo, config, zap.NewNop()),
		users:   users,
	}
}

func (tr *testRouter) do(t *testing.T, method, path string, role entity.UserRole) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		token, _, err := utils.GenerateToken(testSecret, tr.users[role].ID, string(role), time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	tr := newTestRouter(t)

	rec := tr.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_RoleGuards(t *testing.T) {
	tr := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		role       entity.UserRole
		wantStatus int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/rides/available", wantStatus: http.StatusUnauthorized},
		{name: "driver sees open requests", method: http.MethodGet, path: "/api/rides/available", role: entity.RoleDriver, wantStatus: http.StatusOK},
		{name: "rider cannot browse requests", method: http.MethodGet, path: "/api/rides/available", role: entity.RoleRider, wantStatus: http.StatusForbidden},
		{name: "admin lists every ride", method: http.MethodGet, path: "/api/rides/all", role: entity.RoleAdmin, wantStatus: http.StatusOK},
		{name: "driver cannot list every ride", method: http.MethodGet, path: "/api/rides/all", role: entity.RoleDriver, wantStatus: http.StatusForbidden},
		{name: "rider cannot accept", method: http.MethodPost, path: "/api/rides/" + uuid.NewString() + "/accept", role: entity.RoleRider, wantStatus: http.StatusForbidden},
		{name: "admin cannot request a ride", method: http.MethodPost, path: "/api/rides", role: entity.RoleAdmin, wantStatus: http.StatusForbidden},
		{name: "wallet is driver only", method: http.MethodGet, path: "/api/wallets/me", role: entity.RoleRider, wantStatus: http.StatusForbidden},
		{name: "payments are rider only", method: http.MethodPost, path: "/api/payments/orders", role: entity.RoleDriver, wantStatus: http.StatusForbidden},
		{name: "admin area", method: http.MethodGet, path: "/api/admin/users", role: entity.RoleRider, wantStatus: http.StatusForbidden},
		{name: "availability is driver only", method: http.MethodPatch, path: "/api/users/availability", role: entity.RoleRider, wantStatus: http.StatusForbidden},
		{name: "nearby drivers is rider only", method: http.MethodGet, path: "/api/users/drivers/nearby", role: entity.RoleDriver, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tr.do(t, tt.method, tt.path, tt.role)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouter_Uploads(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"avatars/01JAVATAR.png", "aadhars/01JABCDEF.png", "licenses/01JLICENSE.png"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("image"), 0o644))
	}
	tr := newTestRouter(t, func(c *utils.Config) { c.Storage.RootDir = root })

	tests := []struct {
		name       string
		path       string
		role       entity.UserRole
		wantStatus int
	}{
		{name: "avatar is public", path: "/uploads/avatars/01JAVATAR.png", wantStatus: http.StatusOK},
		{name: "avatar folder is not listed", path: "/uploads/avatars/", wantStatus: http.StatusNotFound},
		{name: "aadhaar folder needs a token", path: "/uploads/aadhars/", wantStatus: http.StatusUnauthorized},
		{name: "aadhaar file needs a token", path: "/uploads/aadhars/01JABCDEF.png", wantStatus: http.StatusUnauthorized},
		{name: "driver cannot read licenses", path: "/uploads/licenses/01JLICENSE.png", role: entity.RoleDriver, wantStatus: http.StatusForbidden},
		{name: "rider cannot read aadhaar", path: "/uploads/aadhars/01JABCDEF.png", role: entity.RoleRider, wantStatus: http.StatusForbidden},
		{name: "admin reads aadhaar", path: "/uploads/aadhars/01JABCDEF.png", role: entity.RoleAdmin, wantStatus: http.StatusOK},
		{name: "admin reads license", path: "/uploads/licenses/01JLICENSE.png", role: entity.RoleAdmin, wantStatus: http.StatusOK},
		{name: "admin gets no folder index", path: "/uploads/aadhars/", role: entity.RoleAdmin, wantStatus: http.StatusNotFound},
		{name: "unknown folder", path: "/uploads/other/file.png", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tr.do(t, http.MethodGet, tt.path, tt.role)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotContains(t, rec.Body.String(), "01JABCDEF.png")
		})
	}
}
