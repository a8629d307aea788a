package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHeliusClient(t *testing.T, handler http.HandlerFunc, maxBatch int) *HeliusClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHeliusClient(HeliusClientConfig{
		BaseURL:      srv.URL + "/",
		APIKey:       "test-key",
		Timeout:      2 * time.Second,
		MaxBatchSize: maxBatch,
	}, zap.NewNop())
}

func TestGetEnhancedTransactions(t *testing.T) {
	var gotBody enhancedTransactionsRequest
	c := newTestHeliusClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v0/transactions", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api-key"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		_, _ = w.Write([]byte(`[
			{"signature":"sig1","type":"TRANSFER","source":"SYSTEM_PROGRAM","timestamp":1700000000,"fee":5000,
			 "nativeTransfers":[{"fromUserAccount":"a","toUserAccount":"b","amount":1000000000}]},
			{"signature":"sig2","timestamp":"not-a-number"},
			{"signature":"sig3","timestamp":1700000100,"fee":"5000","events":{"swap":{"source":"JUPITER"}}}
		]`))
	}, 2)

	txs, err := c.GetEnhancedTransactions(context.Background(), []string{"sig1", "sig2", "sig3"})
	require.NoError(t, err)

	// batch is truncated to the configured size
	assert.Equal(t, []string{"sig1", "sig2"}, gotBody.Transactions)

	require.Len(t, txs, 2)
	assert.Equal(t, "sig1", txs[0].Signature)
	require.Len(t, txs[0].NativeTransfers, 1)
	amount, err := txs[0].NativeTransfers[0].Amount.Float64()
	require.NoError(t, err)
	assert.Equal(t, 1e9, amount)

	assert.Equal(t, "sig3", txs[1].Signature)
	require.NotNil(t, txs[1].Fee)
	fee, err := txs[1].Fee.Float64()
	require.NoError(t, err)
	assert.Equal(t, 5000.0, fee)
	require.NotNil(t, txs[1].Events.Swap)
}

func TestGetEnhancedTransactionsEmptyInput(t *testing.T) {
	called := false
	c := newTestHeliusClient(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}, 100)

	txs, err := c.GetEnhancedTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.False(t, called)
}

func TestGetEnhancedTransactionsFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
			},
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, _ *http.Request) {},
		},
		{
			name: "not an array",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"error":"bad"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestHeliusClient(t, tt.handler, 100)
			_, err := c.GetEnhancedTransactions(context.Background(), []string{"sig1"})
			assert.Error(t, err)
		})
	}
}

func TestGetEnhancedTransactionsTimeout(t *testing.T) {
	c := newTestHeliusClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}, 100)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.GetEnhancedTransactions(ctx, []string{"sig1"})
	assert.Error(t, err)
}
