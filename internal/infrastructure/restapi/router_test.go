package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testWallet = "vines1vzrYbzLMRdu58ou5XTby4qAqVRLmqo36NKPTg"

type stubWalletService struct {
	calls []port.DashboardOptions
	resp  entity.WalletDashboard
}

func (s *stubWalletService) GetWalletDashboard(_ context.Context, wallet entity.WalletAddress, opts port.DashboardOptions) entity.WalletDashboard {
	s.calls = append(s.calls, opts)
	if s.resp.Wallet.Address == "" {
		return entity.NewWalletDashboard(wallet.String())
	}
	return s.resp
}

func newTestRouter(svc port.WalletService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(NewWalletHandler(svc, zap.NewNop()), RouterOptions{
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	}, zap.NewNop())
}

func serve(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestGetWalletDashboardHandler(t *testing.T) {
	svc := &stubWalletService{}
	router := newTestRouter(svc)

	w := serve(router, http.MethodGet, "/api/wallet/"+testWallet+"?days=5&refresh=true")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	wallet := body["wallet"].(map[string]any)
	assert.Equal(t, testWallet, wallet["address"])
	assert.Nil(t, wallet["sol_balance"])
	assert.Equal(t, []any{}, wallet["tokens"])
	assert.Equal(t, []any{}, body["errors"])

	require.Len(t, svc.calls, 1)
	assert.Equal(t, port.DashboardOptions{Days: 5, Refresh: true}, svc.calls[0])
}

func TestGetWalletDashboardHandlerQueryDefaults(t *testing.T) {
	svc := &stubWalletService{}
	router := newTestRouter(svc)

	w := serve(router, http.MethodGet, "/api/wallet/"+testWallet+"?days=abc&refresh=maybe")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.calls, 1)
	assert.Equal(t, port.DashboardOptions{}, svc.calls[0])
}

func TestGetWalletDashboardHandlerPartialFailureIsOK(t *testing.T) {
	resp := entity.NewWalletDashboard(testWallet)
	resp.AddError(entity.ErrMsgWalletAssets)
	svc := &stubWalletService{resp: resp}

	w := serve(newTestRouter(svc), http.MethodGet, "/api/wallet/"+testWallet)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), entity.ErrMsgWalletAssets)
}

func TestGetWalletDashboardHandlerInvalidWallet(t *testing.T) {
	svc := &stubWalletService{}
	router := newTestRouter(svc)

	for _, addr := range []string{"not-a-wallet", "0OIl", "abc"} {
		w := serve(router, http.MethodGet, "/api/wallet/"+addr)
		assert.Equal(t, http.StatusBadRequest, w.Code, addr)
		assert.JSONEq(t, `{"error":"invalid wallet address"}`, w.Body.String())
	}
	assert.Empty(t, svc.calls)
}

func TestOperationalRoutes(t *testing.T) {
	router := newTestRouter(&stubWalletService{})

	w := serve(router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/metrics").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/debug/pprof/").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/swagger/index.html").Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := newTestRouter(&stubWalletService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
}
