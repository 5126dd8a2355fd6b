package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-lab-console/client"
	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/jrsteele09/go-lab-console/storage/repofake"
	"github.com/stretchr/testify/require"
)

type recordingEnder struct {
	lock    sync.Mutex
	reasons []string
	cleared int
	store   *sessions.Store
}

func (e *recordingEnder) EndSession(reason string) bool {
	cleared := e.store.Clear()
	e.lock.Lock()
	defer e.lock.Unlock()
	e.reasons = append(e.reasons, reason)
	if cleared {
		e.cleared++
	}
	return cleared
}

func (e *recordingEnder) calls() int {
	e.lock.Lock()
	defer e.lock.Unlock()
	return len(e.reasons)
}

func newStore(t *testing.T, token string) *sessions.Store {
	t.Helper()
	store := sessions.NewStore(repofake.NewFakeStorageRepo())
	if token != "" {
		require.NoError(t, store.SetCurrent(sessions.Session{Username: "jdoe", Token: token, Role: "ADMIN"}))
	}
	return store
}

func TestAuthenticatorHeader(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"}) //nolint:errcheck
	}))
	defer srv.Close()

	t.Run("with token", func(t *testing.T) {
		store := newStore(t, "abc")
		c := client.NewAuthenticated(srv.URL, time.Second, store, &recordingEnder{store: store})
		require.NoError(t, c.Get(context.Background(), "/x", nil))
		require.Equal(t, "Bearer abc", gotAuth)
		require.NotEmpty(t, gotRequestID)
	})

	t.Run("without token", func(t *testing.T) {
		store := newStore(t, "")
		c := client.NewAuthenticated(srv.URL, time.Second, store, &recordingEnder{store: store})
		require.NoError(t, c.Get(context.Background(), "/x", nil))
		require.Empty(t, gotAuth)
	})
}

func TestAuthenticatorUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Token expirado"}) //nolint:errcheck
	}))
	defer srv.Close()

	t.Run("ends session and surfaces error", func(t *testing.T) {
		store := newStore(t, "abc")
		ender := &recordingEnder{store: store}
		c := client.NewAuthenticated(srv.URL, time.Second, store, ender)

		err := c.Get(context.Background(), "/ordenes", nil)
		require.True(t, client.IsUnauthorized(err))
		var httpErr *client.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, "Token expirado", httpErr.Message)
		require.Equal(t, 1, ender.calls())
		require.Nil(t, store.GetCurrent())
	})

	t.Run("concurrent 401s clear once", func(t *testing.T) {
		store := newStore(t, "abc")
		ender := &recordingEnder{store: store}
		c := client.NewAuthenticated(srv.URL, time.Second, store, ender)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = c.Get(context.Background(), "/ordenes", nil)
			}()
		}
		wg.Wait()
		for _, err := range errs {
			require.True(t, client.IsUnauthorized(err))
		}
		require.Equal(t, 2, ender.calls())
		require.Equal(t, 1, ender.cleared)
		require.Nil(t, store.GetCurrent())
	})
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bad":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "El código ya existe"}) //nolint:errcheck
		case "/plain":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom")) //nolint:errcheck
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		default:
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || r.Header.Get("Content-Type") != "application/json" {
				w.WriteHeader(http.StatusUnsupportedMediaType)
				return
			}
			json.NewEncoder(w).Encode(client.APIResponse[map[string]string]{Success: true, Data: body}) //nolint:errcheck
		}
	}))
	defer srv.Close()

	store := newStore(t, "abc")
	ender := &recordingEnder{store: store}
	c := client.NewAuthenticated(srv.URL, time.Second, store, ender)
	ctx := context.Background()

	t.Run("validation error keeps session", func(t *testing.T) {
		err := c.Post(ctx, "/bad", map[string]string{}, nil)
		require.True(t, client.IsStatus(err, http.StatusBadRequest))
		require.Contains(t, err.Error(), "El código ya existe")
		require.Equal(t, 0, ender.calls())
		require.NotNil(t, store.GetCurrent())
	})

	t.Run("plain text body", func(t *testing.T) {
		err := c.Get(ctx, "/plain", nil)
		require.EqualError(t, err, "HTTP 500: boom")
	})

	t.Run("no content", func(t *testing.T) {
		var out map[string]string
		require.NoError(t, c.Delete(ctx, "/empty", &out))
	})

	t.Run("envelope round trip", func(t *testing.T) {
		var out client.APIResponse[map[string]string]
		require.NoError(t, c.Put(ctx, "/echo", map[string]string{"sucursal": "Norte"}, &out))
		data, err := out.Unwrap()
		require.NoError(t, err)
		require.Equal(t, "Norte", data["sucursal"])
	})
}

func TestUnwrap(t *testing.T) {
	_, err := client.APIResponse[int]{Success: false, Message: "nope"}.Unwrap()
	require.ErrorIs(t, err, apperrors.ErrMalformedResponse)

	v, err := client.APIResponse[int]{Success: true, Data: 7}.Unwrap()
	require.NoError(t, err)
	require.Equal(t, 7, v)
}
