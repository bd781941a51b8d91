package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeingRelentless/QKart-Shopping/internal/config"
	"github.com/BeingRelentless/QKart-Shopping/internal/domain/cart"
	"github.com/BeingRelentless/QKart-Shopping/internal/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.BackendConfig{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, logger.Discard())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_Login(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "learnwithcrio" {
			writeJSON(w, http.StatusBadRequest, errorBody{Message: "Password is incorrect"})
			return
		}
		writeJSON(w, http.StatusCreated, LoginResponse{Success: true, Token: "tok", Username: body.Username, Balance: 5000})
	})

	resp, err := client.Login(context.Background(), "crio.do", "learnwithcrio")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "crio.do", resp.Username)
	assert.Equal(t, 5000.0, resp.Balance)

	_, err = client.Login(context.Background(), "crio.do", "wrong")
	re, ok := AsRemote(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, re.StatusCode)
	assert.Equal(t, "Password is incorrect", re.Message)
}

func TestClient_LoginRequiresCreated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, LoginResponse{Token: "tok"})
	})

	_, err := client.Login(context.Background(), "u", "p")
	require.Error(t, err)
	_, isRemote := AsRemote(err)
	assert.False(t, isRemote)
	te, ok := AsTransport(err)
	require.True(t, ok)
	assert.Equal(t, "POST /auth/login", te.Op)
	assert.Contains(t, te.Error(), "unexpected status 200")
}

func TestClient_Register(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)
		writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
	})

	assert.NoError(t, client.Register(context.Background(), "newuser", "secret1"))
}

func TestClient_SearchProducts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/search", r.URL.Path)
		switch r.URL.Query().Get("value") {
		case "running shoes":
			writeJSON(w, http.StatusOK, []map[string]interface{}{{"_id": "A", "name": "Running Shoes", "cost": 50, "image": "a.png"}})
		default:
			writeJSON(w, http.StatusNotFound, []interface{}{})
		}
	})

	products, err := client.SearchProducts(context.Background(), "running shoes")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "A", products[0].ID)
	assert.Equal(t, "a.png", products[0].ImageURL)

	products, err = client.SearchProducts(context.Background(), "zzz")
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestClient_ListProductsServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Something went wrong. Check the backend console for more details"})
	})

	_, err := client.ListProducts(context.Background())
	re, ok := AsRemote(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, re.StatusCode)
	assert.Equal(t, "Something went wrong. Check the backend console for more details", re.Message)
}

func TestClient_CartCallsSendBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/cart", r.URL.Path)

		if r.Method == http.MethodPost {
			var e cart.Entry
			require.NoError(t, json.NewDecoder(r.Body).Decode(&e))
			writeJSON(w, http.StatusOK, []cart.Entry{{ProductID: "B", Quantity: 1}, e})
			return
		}
		writeJSON(w, http.StatusOK, []cart.Entry{{ProductID: "B", Quantity: 1}})
	})

	entries, err := client.GetCart(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []cart.Entry{{ProductID: "B", Quantity: 1}}, entries)

	entries, err = client.UpsertCartEntry(context.Background(), "tok", "A", 3)
	require.NoError(t, err)
	assert.Equal(t, []cart.Entry{{ProductID: "B", Quantity: 1}, {ProductID: "A", Quantity: 3}}, entries)
}

func TestClient_ErrorWithoutMessageUsesStatusText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetCart(context.Background(), "expired")
	re, ok := AsRemote(err)
	require.True(t, ok)
	assert.Equal(t, "Unauthorized", re.Message)
}

func TestClient_InvalidJSONIsTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>"))
	})

	_, err := client.ListProducts(context.Background())
	_, ok := AsTransport(err)
	assert.True(t, ok)
}

func TestClient_UnreachableBackendIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(config.BackendConfig{BaseURL: srv.URL, Timeout: time.Second}, logger.Discard())

	_, err := client.ListProducts(context.Background())
	te, ok := AsTransport(err)
	require.True(t, ok)
	assert.Equal(t, "GET /products", te.Op)
}
