package levelclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Login(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username != "seller" || req.Password != "goodpass" {
			writeJSON(w, http.StatusUnauthorized, `{"status":"Error","error":"invalid username or password"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"status":"OK","data":{"access_token":"access-1","refresh_token":"refresh-1","username":"seller"}}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Run("valid credentials store both tokens", func(t *testing.T) {
		client := New(srv.URL)
		require.False(t, client.IsAuthenticated())

		err := client.Login(context.Background(), "seller", "goodpass")

		require.NoError(t, err)
		assert.True(t, client.IsAuthenticated())
		assert.Equal(t, "access-1", client.tokens.Access())
		assert.Equal(t, "refresh-1", client.tokens.Refresh())
	})

	t.Run("invalid credentials leave session unauthenticated", func(t *testing.T) {
		client := New(srv.URL)

		err := client.Login(context.Background(), "seller", "wrongpass")

		require.Error(t, err)
		assert.NotEmpty(t, err.Error())
		assert.False(t, client.IsAuthenticated())
		assert.Empty(t, client.tokens.Access())
	})
}

func TestClient_Signup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/signup", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "1990-05-12", req["date_of_birth"])
		writeJSON(w, http.StatusOK, `{"status":"OK","data":{"uid":"uid-77","username":"newseller"}}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL)

	uid, err := client.Signup(context.Background(), newSignupFixture())

	require.NoError(t, err)
	assert.Equal(t, "uid-77", uid)
	assert.False(t, client.IsAuthenticated(), "signup must not authenticate the session")
}

func TestClient_Logout(t *testing.T) {
	client := New("http://localhost:1")
	require.NoError(t, client.tokens.SetTokens("access-1", "refresh-1"))
	client.mu.Lock()
	client.authenticated = true
	client.mu.Unlock()

	client.Logout()

	assert.False(t, client.IsAuthenticated())
	assert.Empty(t, client.tokens.Access())
	assert.Empty(t, client.tokens.Refresh())
	assert.Nil(t, client.Profile())
}

func TestClient_Restore(t *testing.T) {
	var profileCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/profile", func(w http.ResponseWriter, _ *http.Request) {
		profileCalls++
		writeJSON(w, http.StatusOK, `{"status":"OK","data":{"profile":{"id":"uid-1","username":"seller"}}}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Run("with stored access token fetches profile", func(t *testing.T) {
		profileCalls = 0
		client := New(srv.URL)
		require.NoError(t, client.tokens.SetTokens("access-1", "refresh-1"))

		require.NoError(t, client.Restore(context.Background()))

		assert.Equal(t, 1, profileCalls)
		assert.True(t, client.IsAuthenticated())
		require.NotNil(t, client.Profile())
		assert.Equal(t, "seller", client.Profile().Username)
	})

	t.Run("without stored token does nothing", func(t *testing.T) {
		profileCalls = 0
		client := New(srv.URL)

		require.NoError(t, client.Restore(context.Background()))

		assert.Equal(t, 0, profileCalls)
		assert.False(t, client.IsAuthenticated())
	})
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFileTokenStore(path)

	require.NoError(t, store.SetTokens("access-1", "refresh-1"))
	assert.Equal(t, "access-1", store.Access())
	assert.Equal(t, "refresh-1", store.Refresh())

	require.NoError(t, store.SetAccess("access-2"))
	assert.Equal(t, "access-2", store.Access())
	assert.Equal(t, "refresh-1", store.Refresh(), "refresh token must survive an access-only update")

	reopened := NewFileTokenStore(path)
	assert.Equal(t, "access-2", reopened.Access())

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Access())
	assert.Empty(t, store.Refresh())
	require.NoError(t, store.Clear(), "clearing an empty store must not fail")
}
