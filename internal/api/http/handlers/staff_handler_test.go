package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/salon-admin-service/internal/api/http"
	"github.com/spec-kit/salon-admin-service/internal/api/http/handlers"
	"github.com/spec-kit/salon-admin-service/internal/auth"
	"github.com/spec-kit/salon-admin-service/internal/config"
	"github.com/spec-kit/salon-admin-service/internal/domain"
	"github.com/spec-kit/salon-admin-service/internal/events"
	"github.com/spec-kit/salon-admin-service/internal/observability"
	"github.com/spec-kit/salon-admin-service/internal/persistence"
	"github.com/spec-kit/salon-admin-service/internal/repository"
	"github.com/spec-kit/salon-admin-service/internal/service"
)

type fakeOTPStore struct {
	mu     sync.Mutex
	hashes map[string]string
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{hashes: make(map[string]string)}
}

func (f *fakeOTPStore) Put(ctx context.Context, phone, hash string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hashes[phone] = hash
	return nil
}

func (f *fakeOTPStore) Get(ctx context.Context, phone string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hash, ok := f.hashes[phone]
	if !ok {
		return "", repository.ErrOTPNotFound
	}
	return hash, nil
}

func (f *fakeOTPStore) Delete(ctx context.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.hashes, phone)
	return nil
}

type fakeStaffRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.StaffUser
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{users: make(map[string]*domain.StaffUser)}
}

func (f *fakeStaffRepo) Create(ctx context.Context, staff *domain.StaffUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	staff.ID = fmt.Sprintf("id-%d", f.seq)
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt
	cp := *staff
	f.users[staff.ID] = &cp
	return nil
}

func (f *fakeStaffRepo) Update(ctx context.Context, staff *domain.StaffUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *staff
	f.users[staff.ID] = &cp
	return nil
}

func (f *fakeStaffRepo) GetByID(ctx context.Context, id string) (*domain.StaffUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *staff
	return &cp, nil
}

func (f *fakeStaffRepo) GetByPhone(ctx context.Context, phone string) (*domain.StaffUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var unverified *domain.StaffUser
	for _, staff := range f.users {
		if staff.PhoneNumber != phone {
			continue
		}
		if staff.IsVerified {
			cp := *staff
			return &cp, nil
		}
		unverified = staff
	}
	if unverified != nil {
		cp := *unverified
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.StaffUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.StaffUser
	for _, staff := range f.users {
		if staff.Role == role {
			result = append(result, *staff)
		}
	}
	return result, nil
}

func (f *fakeStaffRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStaffRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

type testEnv struct {
	app     *fiber.App
	repo    *fakeStaffRepo
	tokens  *auth.TokenManager
	metrics *observability.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	repo := newFakeStaffRepo()

	authCfg := config.AuthConfig{
		TokenSecret:           "test-secret",
		AccessTokenTTLMinutes: 60,
		OTPTTLMinutes:         10,
		BcryptCost:            4,
	}

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	staffService := service.NewStaffService(repo, dispatcher, authCfg.OTPTTL())
	authService := service.NewAuthService(authCfg, repo, newFakeOTPStore(), dispatcher)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Staff:          handlers.NewStaffHandler(staffService),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), logger),
	})

	return &testEnv{app: app, repo: repo, tokens: authService.TokenManager(), metrics: metrics}
}

func (e *testEnv) token(t *testing.T, role domain.Role) string {
	t.Helper()
	token, _, err := e.tokens.GenerateToken("caller-1", "+15559999", role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func (e *testEnv) request(t *testing.T, method, target, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return payload
}

func createBody() map[string]any {
	return map[string]any{
		"phoneNumber":  "+15550100",
		"username":     "dana",
		"services":     []string{"haircut", "coloring"},
		"workingHours": map[string]string{"start": "09:00", "end": "17:00"},
	}
}

func TestHandlersRejectMissingToken(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		method string
		target string
		body   any
	}{
		{fiber.MethodPost, "/api/admin/staff", createBody()},
		{fiber.MethodGet, "/api/admin/staff", nil},
		{fiber.MethodPatch, "/api/admin/staff?id=id-1", map[string]any{"rating": 4}},
		{fiber.MethodDelete, "/api/admin/staff?id=id-1", nil},
	}
	for _, tc := range cases {
		resp := env.request(t, tc.method, tc.target, "", tc.body)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status %d, want 401", tc.method, tc.target, resp.StatusCode)
		}
	}
	if env.repo.count() != 0 {
		t.Error("store mutated by unauthenticated request")
	}
}

func TestHandlersRejectInvalidToken(t *testing.T) {
	env := newTestEnv(t)
	other := auth.NewTokenManager("other-secret", 60)
	forged, _, err := other.GenerateToken("caller-1", "", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	resp := env.request(t, fiber.MethodPost, "/api/admin/staff", forged, createBody())
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status %d, want 401", resp.StatusCode)
	}
	if env.repo.count() != 0 {
		t.Error("store mutated despite invalid token")
	}
}

func TestTokenAcceptedFromCookie(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/admin/staff", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: env.token(t, domain.RoleStaff)})

	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status %d, want 200", resp.StatusCode)
	}
}

func TestCreateStaff(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/api/admin/staff", env.token(t, domain.RoleStaff), createBody())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status %d, want 201", resp.StatusCode)
	}

	stored, err := env.repo.GetByPhone(context.Background(), "+15550100")
	if err != nil {
		t.Fatalf("record not persisted: %v", err)
	}
	if stored.Role != domain.RoleStaff || !stored.IsVerified || stored.IsOnHoliday {
		t.Errorf("forced fields wrong: %+v", stored)
	}
}

func TestCreateStaffMissingWorkingHoursEnd(t *testing.T) {
	env := newTestEnv(t)

	body := createBody()
	body["workingHours"] = map[string]string{"start": "09:00"}
	resp := env.request(t, fiber.MethodPost, "/api/admin/staff", env.token(t, domain.RoleStaff), body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}
	if env.repo.count() != 0 {
		t.Error("record created despite invalid workingHours")
	}
}

func TestCreateStaffConflict(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, domain.RoleStaff)

	if resp := env.request(t, fiber.MethodPost, "/api/admin/staff", token, createBody()); resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed create status %d", resp.StatusCode)
	}
	resp := env.request(t, fiber.MethodPost, "/api/admin/staff", token, createBody())
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status %d, want 409", resp.StatusCode)
	}
	if env.repo.count() != 1 {
		t.Errorf("repo has %d records, want 1", env.repo.count())
	}
}

func TestListStaffOnly(t *testing.T) {
	env := newTestEnv(t)

	admin := &domain.StaffUser{PhoneNumber: "+15550101", Role: domain.RoleAdmin, IsVerified: true}
	if err := env.repo.Create(context.Background(), admin); err != nil {
		t.Fatalf("seed: %v", err)
	}
	staffer := &domain.StaffUser{PhoneNumber: "+15550102", Role: domain.RoleStaff, IsVerified: true}
	if err := env.repo.Create(context.Background(), staffer); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp := env.request(t, fiber.MethodGet, "/api/admin/staff", env.token(t, domain.RoleStaff), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	payload := decodeBody(t, resp)
	list, ok := payload["staff"].([]any)
	if !ok {
		t.Fatalf("response missing staff array: %v", payload)
	}
	if len(list) != 1 {
		t.Errorf("staff list has %d entries, want 1", len(list))
	}
}

func TestPatchRatingOnly(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, domain.RoleStaff)

	if resp := env.request(t, fiber.MethodPost, "/api/admin/staff", token, createBody()); resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed create failed")
	}
	stored, err := env.repo.GetByPhone(context.Background(), "+15550100")
	if err != nil {
		t.Fatalf("seed lookup: %v", err)
	}

	resp := env.request(t, fiber.MethodPatch, "/api/admin/staff?id="+stored.ID, token, map[string]any{"rating": 4})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}

	after, err := env.repo.GetByID(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("lookup after patch: %v", err)
	}
	if after.Rating == nil || *after.Rating != 4 {
		t.Errorf("rating = %v, want 4", after.Rating)
	}
	if after.Username != stored.Username || after.WorkingHours != stored.WorkingHours ||
		after.IsVerified != stored.IsVerified || after.PhoneNumber != stored.PhoneNumber {
		t.Errorf("fields beyond rating changed: before %+v after %+v", stored, after)
	}
}

func TestPatchUnknownID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodPatch, "/api/admin/staff?id=missing", env.token(t, domain.RoleStaff), map[string]any{"rating": 4})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status %d, want 404", resp.StatusCode)
	}
}

func TestDeleteRequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)
	staffToken := env.token(t, domain.RoleStaff)

	if resp := env.request(t, fiber.MethodPost, "/api/admin/staff", staffToken, createBody()); resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed create failed")
	}
	stored, err := env.repo.GetByPhone(context.Background(), "+15550100")
	if err != nil {
		t.Fatalf("seed lookup: %v", err)
	}

	resp := env.request(t, fiber.MethodDelete, "/api/admin/staff?id="+stored.ID, staffToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status %d, want 403", resp.StatusCode)
	}
	if _, err := env.repo.GetByID(context.Background(), stored.ID); err != nil {
		t.Error("record removed by non-admin caller")
	}
}

func TestDeleteAsAdmin(t *testing.T) {
	env := newTestEnv(t)

	if resp := env.request(t, fiber.MethodPost, "/api/admin/staff", env.token(t, domain.RoleStaff), createBody()); resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed create failed")
	}
	stored, err := env.repo.GetByPhone(context.Background(), "+15550100")
	if err != nil {
		t.Fatalf("seed lookup: %v", err)
	}

	adminToken := env.token(t, domain.RoleAdmin)
	resp := env.request(t, fiber.MethodDelete, "/api/admin/staff?id="+stored.ID, adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	if _, err := env.repo.GetByID(context.Background(), stored.ID); err == nil {
		t.Error("record still present after delete")
	}

	// Same id again is now a 404.
	resp = env.request(t, fiber.MethodDelete, "/api/admin/staff?id="+stored.ID, adminToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("repeat delete status %d, want 404", resp.StatusCode)
	}
}

func TestDeleteMissingID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodDelete, "/api/admin/staff", env.token(t, domain.RoleAdmin), nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}
}

func TestRequestOTPEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/api/auth/otp/request", "", map[string]any{"phoneNumber": "+15550103"})
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("status %d, want 202", resp.StatusCode)
	}

	resp = env.request(t, fiber.MethodPost, "/api/auth/otp/request", "", map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty phone status %d, want 400", resp.StatusCode)
	}
}

func TestFailedRequestCountedWithFinalStatus(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodPatch, "/api/admin/staff?id=missing", env.token(t, domain.RoleStaff), map[string]any{"rating": 4})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", resp.StatusCode)
	}

	if got := env.metrics.RequestCount("/api/admin/staff", fiber.MethodPatch, http.StatusNotFound); got != 1 {
		t.Errorf("404 request count = %d, want 1", got)
	}
	if got := env.metrics.RequestCount("/api/admin/staff", fiber.MethodPatch, http.StatusOK); got != 0 {
		t.Errorf("failed request counted as 200 (count = %d)", got)
	}
}

func TestErrorBodyIsSanitized(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodPatch, "/api/admin/staff?id=missing", env.token(t, domain.RoleStaff), map[string]any{"rating": 4})
	payload := decodeBody(t, resp)
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("error body missing: %v", payload)
	}
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("code = %v, want NOT_FOUND", errObj["code"])
	}
	if _, leaked := errObj["stack"]; leaked {
		t.Error("stack leaked to client")
	}
}
