package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orderhub/authz-gateway/internal/config"
	"github.com/orderhub/authz-gateway/internal/domain/authz"
	"github.com/orderhub/authz-gateway/internal/domain/policy"
	httptransport "github.com/orderhub/authz-gateway/internal/transport/http"
)

type mockAppService struct {
	authorizeFunc func(ctx context.Context, in authz.Input) (*policy.Decision, error)
	checkFunc     func(ctx context.Context, in authz.Input, cacheTTL time.Duration) (*policy.Decision, error)
}

func (m *mockAppService) Authorize(ctx context.Context, in authz.Input) (*policy.Decision, error) {
	if m.authorizeFunc != nil {
		return m.authorizeFunc(ctx, in)
	}
	return policy.Allowed(map[string]string{"id": "u1", "role": "Manager", "companies": "c1,c2"}), nil
}

func (m *mockAppService) Check(ctx context.Context, in authz.Input, cacheTTL time.Duration) (*policy.Decision, error) {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, in, cacheTTL)
	}
	return policy.Allowed(map[string]string{"id": "u1", "role": "Manager", "companies": "c1,c2"}), nil
}

func createTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.DecisionCacheTTL = 5 * time.Minute
	cfg.Auth.RequiredRole = "Manager"
	return cfg
}

func newCheckRouter(svc *mockAppService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := httptransport.NewHandler(svc, createTestConfig())
	router := gin.New()
	router.Any("/authorize/*path", handler.Check)
	return router
}

func TestHandler_Check_Allow(t *testing.T) {
	router := newCheckRouter(&mockAppService{})

	req := httptest.NewRequest(http.MethodGet, "/authorize/test", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	req.Header.Set("X-Resource-Company-Id", "c1")
	req.Header.Set("X-Resource-User-Id", "u1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Header().Get("X-User-Id") != "u1" {
		t.Errorf("expected x-user-id header, got %q", w.Header().Get("X-User-Id"))
	}
	if w.Header().Get("X-User-Role") != "Manager" {
		t.Errorf("expected x-user-role header, got %q", w.Header().Get("X-User-Role"))
	}
	if w.Header().Get("X-User-Companies") != "c1,c2" {
		t.Errorf("expected x-user-companies header, got %q", w.Header().Get("X-User-Companies"))
	}
}

func TestHandler_Check_ResourceForwardedToService(t *testing.T) {
	var seen authz.Input
	svc := &mockAppService{
		checkFunc: func(_ context.Context, in authz.Input, _ time.Duration) (*policy.Decision, error) {
			seen = in
			return policy.Allowed(map[string]string{"id": "u1"}), nil
		},
	}
	router := newCheckRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/authorize/orders", nil)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("X-Resource-Company-Id", "c9")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if seen.Resource.CompanyID != "c9" {
		t.Errorf("expected company id c9 forwarded, got %q", seen.Resource.CompanyID)
	}
	if seen.Endpoint.RequiredRole != "Manager" {
		t.Errorf("expected configured required role, got %q", seen.Endpoint.RequiredRole)
	}
	if !seen.Endpoint.RequireCompany {
		t.Error("expected company rule enabled for the authorizer endpoint")
	}
	if seen.Endpoint.SelfField != "" {
		t.Errorf("expected no subject rule without a forwarded user id, got %q", seen.Endpoint.SelfField)
	}
}

func TestHandler_Check_ForwardedUserIDEnablesSubjectRule(t *testing.T) {
	var seen authz.Input
	svc := &mockAppService{
		checkFunc: func(_ context.Context, in authz.Input, _ time.Duration) (*policy.Decision, error) {
			seen = in
			return policy.Allowed(map[string]string{"id": "u1"}), nil
		},
	}
	router := newCheckRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/authorize/orders", nil)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("X-Resource-Company-Id", "c9")
	req.Header.Set("X-Resource-User-Id", "u7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if seen.Resource.UserID != "u7" {
		t.Errorf("expected user id u7 forwarded, got %q", seen.Resource.UserID)
	}
	if seen.Resource.Params["user_id"] != "u7" {
		t.Errorf("expected user_id param u7, got %q", seen.Resource.Params["user_id"])
	}
	if seen.Endpoint.SelfField != "user_id" {
		t.Errorf("expected subject rule on user_id, got %q", seen.Endpoint.SelfField)
	}
}

func TestHandler_Check_DenyIsOpaque(t *testing.T) {
	reasons := []policy.Reason{
		policy.ReasonMissingToken,
		policy.ReasonTokenInvalid,
		policy.ReasonPermissionLookupFailed,
		policy.ReasonPermissionNotFound,
		policy.ReasonIdentityMismatch,
		policy.ReasonNoCompanyAccess,
		policy.ReasonInsufficientRole,
	}

	for _, reason := range reasons {
		svc := &mockAppService{
			checkFunc: func(_ context.Context, _ authz.Input, _ time.Duration) (*policy.Decision, error) {
				return policy.Denied(reason), nil
			},
		}
		router := newCheckRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/authorize/test", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("reason %q: expected status %d, got %d", reason, http.StatusUnauthorized, w.Code)
		}
		if w.Body.String() != `{"error":"Unauthorized"}` {
			t.Errorf("reason %q: outward body must not leak the cause, got %s", reason, w.Body.String())
		}
	}
}

func TestHandler_Check_MissingAuthorizationHeader(t *testing.T) {
	svc := &mockAppService{
		checkFunc: func(_ context.Context, in authz.Input, _ time.Duration) (*policy.Decision, error) {
			if in.Token != "" {
				t.Errorf("expected empty token, got %q", in.Token)
			}
			return policy.Denied(policy.ReasonMissingToken), nil
		},
	}
	router := newCheckRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/authorize/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestHandler_Check_ServiceError(t *testing.T) {
	svc := &mockAppService{
		checkFunc: func(_ context.Context, _ authz.Input, _ time.Duration) (*policy.Decision, error) {
			return nil, context.DeadlineExceeded
		},
	}
	router := newCheckRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/authorize/test", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}
