package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger_wallet_session/models"
)

type mapTokens map[string]string

func (m mapTokens) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func TestNotifyAddress(t *testing.T) {
	var (
		gotAuth string
		gotBody models.UpdateAddressInput
		gotPath string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, time.Second, mapTokens{models.KeyToken: "secret"})
	require.NoError(t, n.NotifyAddress(context.Background(), "0xabc"))

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "/api/users/updateEthereumAddress", gotPath)
	assert.Equal(t, "0xabc", gotBody.EthereumAddress)
}

func TestNotifyAddressNoToken(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, time.Second, mapTokens{})
	err := n.NotifyAddress(context.Background(), "0xabc")
	assert.True(t, errors.Is(err, models.ErrNoToken))
	assert.False(t, called)
}

func TestNotifyAddressServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, time.Second, mapTokens{models.KeyToken: "expired"})
	err := n.NotifyAddress(context.Background(), "0xabc")
	assert.True(t, errors.Is(err, models.ErrBackendNotifyFailed))
}
