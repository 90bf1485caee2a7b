package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/zulvanavito/Plastira/internal/middleware"
	"github.com/zulvanavito/Plastira/internal/models"
	"github.com/zulvanavito/Plastira/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withPrincipal stands in for JWTAuthMiddleware
func withPrincipal(p models.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextPrincipal, p)
		c.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

type stubAuthService struct {
	services.AuthService
	register func(req *models.RegisterRequest) (*models.User, error)
	login    func(req *models.LoginRequest) (*models.LoginResult, error)
}

func (s *stubAuthService) Register(_ context.Context, req *models.RegisterRequest) (*models.User, error) {
	return s.register(req)
}

func (s *stubAuthService) Login(_ context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	return s.login(req)
}

type stubPickupService struct {
	services.PickupService
	submit    func(p models.Principal, req *models.CreatePickupRequest) (*models.Pickup, error)
	verify    func(p models.Principal, id string) (*models.Pickup, error)
	reject    func(p models.Principal, id, note string) (*models.Pickup, error)
	listAdmin func(p models.Principal, f services.PickupFilter) (*models.AdminPickupList, error)
	exportCSV func(p models.Principal, w io.Writer) error
}

func (s *stubPickupService) Submit(_ context.Context, p models.Principal, req *models.CreatePickupRequest) (*models.Pickup, error) {
	return s.submit(p, req)
}

func (s *stubPickupService) Verify(_ context.Context, p models.Principal, id string) (*models.Pickup, error) {
	return s.verify(p, id)
}

func (s *stubPickupService) Reject(_ context.Context, p models.Principal, id, note string) (*models.Pickup, error) {
	return s.reject(p, id, note)
}

func (s *stubPickupService) ListForAdmin(_ context.Context, p models.Principal, f services.PickupFilter) (*models.AdminPickupList, error) {
	return s.listAdmin(p, f)
}

func (s *stubPickupService) ExportCSV(_ context.Context, p models.Principal, w io.Writer) error {
	return s.exportCSV(p, w)
}

type stubRedemptionService struct {
	services.RedemptionService
	redeem func(p models.Principal, voucherID string) (*models.Redemption, error)
}

func (s *stubRedemptionService) Redeem(_ context.Context, p models.Principal, voucherID string) (*models.Redemption, error) {
	return s.redeem(p, voucherID)
}

type stubVoucherService struct {
	services.VoucherService
	deleted []string
	delErr  error
}

func (s *stubVoucherService) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return s.delErr
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
