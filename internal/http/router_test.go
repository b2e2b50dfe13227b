package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httptransport "github.com/gkatsarova/planzy-sub001/internal/http"
	"github.com/gkatsarova/planzy-sub001/internal/infra"
	"github.com/gkatsarova/planzy-sub001/internal/intent"
)

type allowVerifier struct{}

func (allowVerifier) VerifyIDToken(context.Context, string) (*infra.FirebaseToken, error) {
	return &infra.FirebaseToken{UID: "u1"}, nil
}

type nopParser struct{}

func (nopParser) ParseIntent(context.Context, string) intent.Result {
	return intent.Ok(intent.VacationIntent{Destination: "Unknown", DurationDays: 3})
}

func (nopParser) ParseBatch(context.Context, []string, int) []intent.Result { return nil }

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return httptransport.NewRouter(httptransport.RouterDeps{
		Parser:           nopParser{},
		Verifier:         allowVerifier{},
		BatchConcurrency: 2,
	})
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/intents/parse", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestOptionalRoutesAbsent(t *testing.T) {
	r := newRouter()
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/usage"},
		{http.MethodPost, "/api/vacations/plan"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set("Authorization", "Bearer t")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404 without its dependency, got %d", tc.method, tc.path, w.Code)
		}
	}
}
