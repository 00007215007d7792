package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehq/lpoflow/internal/auth"
	"github.com/procurehq/lpoflow/internal/cache"
	"github.com/procurehq/lpoflow/internal/config"
	"github.com/procurehq/lpoflow/internal/domain"
	"github.com/procurehq/lpoflow/internal/service"
	"github.com/procurehq/lpoflow/internal/wizard"
)

type stubVendorRepo struct {
	vendors map[string]domain.Vendor
}

func (r *stubVendorRepo) Create(ctx context.Context, in domain.VendorInput) (*domain.Vendor, error) {
	v := domain.Vendor{
		ID: uuid.NewString(), Name: in.Name, Email: in.Email,
		Phone: in.Phone, Address: in.Address,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	r.vendors[v.ID] = v
	return &v, nil
}

func (r *stubVendorRepo) Update(ctx context.Context, id string, in domain.VendorInput) (*domain.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok {
		return nil, fmt.Errorf("vendor %s: %w", id, domain.ErrNotFound)
	}
	v.Name = in.Name
	r.vendors[id] = v
	return &v, nil
}

func (r *stubVendorRepo) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok {
		return nil, fmt.Errorf("vendor %s: %w", id, domain.ErrNotFound)
	}
	return &v, nil
}

func (r *stubVendorRepo) List(ctx context.Context) ([]domain.Vendor, error) {
	out := make([]domain.Vendor, 0, len(r.vendors))
	for _, v := range r.vendors {
		out = append(out, v)
	}
	return out, nil
}

func (r *stubVendorRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.vendors[id]; !ok {
		return fmt.Errorf("vendor %s: %w", id, domain.ErrNotFound)
	}
	delete(r.vendors, id)
	return nil
}

type stubLpoRepo struct {
	lpos map[string]domain.Lpo
}

func (r *stubLpoRepo) Create(ctx context.Context, lpo *domain.Lpo) error {
	lpo.ID = uuid.NewString()
	r.lpos[lpo.ID] = *lpo
	return nil
}

func (r *stubLpoRepo) GetByID(ctx context.Context, id string) (*domain.Lpo, error) {
	lpo, ok := r.lpos[id]
	if !ok {
		return nil, fmt.Errorf("lpo %s: %w", id, domain.ErrNotFound)
	}
	return &lpo, nil
}

func (r *stubLpoRepo) List(ctx context.Context) ([]domain.Lpo, error) {
	out := make([]domain.Lpo, 0, len(r.lpos))
	for _, lpo := range r.lpos {
		out = append(out, lpo)
	}
	return out, nil
}

func (r *stubLpoRepo) SetStatus(ctx context.Context, id string, status domain.LpoStatus) error {
	lpo, ok := r.lpos[id]
	if !ok {
		return fmt.Errorf("lpo %s: %w", id, domain.ErrNotFound)
	}
	lpo.Status = status
	r.lpos[id] = lpo
	return nil
}

func (r *stubLpoRepo) SetPaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	lpo, ok := r.lpos[id]
	if !ok {
		return fmt.Errorf("lpo %s: %w", id, domain.ErrNotFound)
	}
	lpo.PaymentStatus = status
	r.lpos[id] = lpo
	return nil
}

func (r *stubLpoRepo) AddPayment(ctx context.Context, payment *domain.LpoPayment) error {
	if _, ok := r.lpos[payment.LpoID]; !ok {
		return fmt.Errorf("lpo %s: %w", payment.LpoID, domain.ErrNotFound)
	}
	payment.ID = uuid.NewString()
	return nil
}

func (r *stubLpoRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.lpos[id]; !ok {
		return fmt.Errorf("lpo %s: %w", id, domain.ErrNotFound)
	}
	delete(r.lpos, id)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubLpoRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider, err := auth.NewStaticProvider(config.AuthConfig{
		JWTSecret:     "test-secret-at-least-long-enough",
		TokenTTLHours: 1,
		AdminEmail:    "admin@lpoflow.test",
		AdminPassword: "correct horse",
		AdminName:     "Admin",
	})
	require.NoError(t, err)

	vendorRepo := &stubVendorRepo{vendors: make(map[string]domain.Vendor)}
	lpoRepo := &stubLpoRepo{lpos: make(map[string]domain.Lpo)}
	summaryCache := cache.NewNoopDashboardCache()

	services := &Services{
		Auth:          provider,
		VendorService: service.NewVendorService(vendorRepo),
		LpoService:    service.NewLpoService(lpoRepo, vendorRepo, wizard.NewMemoryDraftStore(), summaryCache),
	}
	return NewRouter(services, nil), lpoRepo
}

func login(t *testing.T, router *gin.Engine) string {
	t.Helper()
	body := `{"email":"admin@lpoflow.test","password":"correct horse"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var session auth.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVendorRoutesRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/vendors", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVendorCreateAndList(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	body := `{"name":"Acme Supplies","email":"sales@acme.test","phone":"555-0101","address":"12 Industrial Way"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/vendors", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var vendors []domain.Vendor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vendors))
	require.Len(t, vendors, 1)
	assert.Equal(t, "Acme Supplies", vendors[0].Name)
}

func TestVendorCreateRejectsInvalidInput(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	body := `{"name":"A","email":"not-an-email","phone":"1","address":"2"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "error")
}

func TestVendorNotFoundMapsTo404(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLpoStatusUpdate(t *testing.T) {
	router, lpos := newTestRouter(t)
	token := login(t, router)

	id := uuid.NewString()
	lpos.lpos[id] = domain.Lpo{ID: id, Status: domain.StatusPending, PaymentStatus: domain.PaymentUnpaid}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/lpos/"+id+"/status", strings.NewReader(`{"status":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.StatusApproved, lpos.lpos[id].Status)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/lpos/"+id+"/payment-status", strings.NewReader(`{"status":"Partial"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.PaymentPartial, lpos.lpos[id].PaymentStatus)
}

func TestLpoStatusUpdateRejectsUnknownLabel(t *testing.T) {
	router, lpos := newTestRouter(t)
	token := login(t, router)

	id := uuid.NewString()
	lpos.lpos[id] = domain.Lpo{ID: id, Status: domain.StatusPending}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/lpos/"+id+"/status", strings.NewReader(`{"status":"shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "error")
	assert.Equal(t, domain.StatusPending, lpos.lpos[id].Status)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/lpos/"+id+"/payment-status", strings.NewReader(`{"status":"refunded"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
