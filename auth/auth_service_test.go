package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-lab-console/auth"
	"github.com/jrsteele09/go-lab-console/client"
	"github.com/jrsteele09/go-lab-console/guard"
	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/jrsteele09/go-lab-console/storage"
	"github.com/jrsteele09/go-lab-console/storage/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testUsername = "jdoe"
	testPassword = "secret1"
	testToken    = "header.payload.signature"
)

// testFixture holds all test dependencies
type testFixture struct {
	server     *httptest.Server
	handlers   map[string]http.HandlerFunc
	hits       map[string]*int32
	lastAuth   atomic.Value
	repo       *repofake.FakeStorageRepo
	store      *sessions.Store
	navigator  *guard.RecordingNavigator
	terminator *auth.Terminator
	gateway    *auth.Gateway
	now        time.Time
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		handlers:  make(map[string]http.HandlerFunc),
		hits:      make(map[string]*int32),
		repo:      repofake.NewFakeStorageRepo(),
		navigator: &guard.RecordingNavigator{},
		now:       time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local),
	}
	f.lastAuth.Store("")
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		f.lastAuth.Store(r.Header.Get("Authorization"))
		if counter, ok := f.hits[key]; ok {
			atomic.AddInt32(counter, 1)
		}
		if h, ok := f.handlers[key]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(f.server.Close)

	f.store = sessions.NewStore(f.repo)
	f.terminator = auth.NewTerminator(f.store, f.repo, f.navigator)
	api := client.NewAuthenticated(f.server.URL, time.Second, f.store, f.terminator)

	gateway, err := auth.NewGateway(api, f.store, f.repo, f.terminator, auth.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.gateway = gateway
	return f
}

func (f *testFixture) handle(method, path string, h http.HandlerFunc) {
	key := method + " " + path
	var counter int32
	f.hits[key] = &counter
	f.handlers[key] = h
}

func (f *testFixture) hitCount(method, path string) int32 {
	return atomic.LoadInt32(f.hits[method+" "+path])
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func loginOK(roles []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username != testUsername {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
			return
		}
		writeJSON(w, http.StatusOK, client.APIResponse[auth.LoginResponse]{
			Success: true,
			Data: auth.LoginResponse{
				Token:     testToken,
				Type:      "Bearer",
				UserID:    42,
				Username:  testUsername,
				FirstName: "Jane",
				LastName:  "Doe",
				Sexo:      "F",
				Roles:     roles,
			},
		})
	}
}

func TestNewGatewayRequiresDependencies(t *testing.T) {
	store := sessions.NewStore(repofake.NewFakeStorageRepo())
	_, err := auth.NewGateway(nil, store, repofake.NewFakeStorageRepo(), nil)
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	t.Run("primary role is first role", func(t *testing.T) {
		f := setupTestFixture(t)
		f.handle(http.MethodPost, "/auth/login", loginOK([]string{"DOCTOR", "ADMIN"}))

		session, err := f.gateway.Login(context.Background(), testUsername, testPassword)
		require.NoError(t, err)
		require.Equal(t, "DOCTOR", session.Role)
		require.Equal(t, testToken, f.store.GetCurrent().Token)
		require.Equal(t, []string{"DOCTOR", "ADMIN"}, session.Roles)

		usuario, err := f.repo.Get(storage.KeyUsuario)
		require.NoError(t, err)
		require.Equal(t, testUsername, usuario)
		fullName, err := f.repo.Get(storage.KeyUserFullName)
		require.NoError(t, err)
		require.Equal(t, "Jane Doe", fullName)
		userID, err := f.repo.Get(storage.KeyUserID)
		require.NoError(t, err)
		require.Equal(t, "42", userID)
	})

	t.Run("no roles falls back to PACIENTE", func(t *testing.T) {
		f := setupTestFixture(t)
		f.handle(http.MethodPost, "/auth/login", loginOK([]string{}))

		session, err := f.gateway.Login(context.Background(), testUsername, testPassword)
		require.NoError(t, err)
		require.Equal(t, auth.DefaultRole, session.Role)
	})

	t.Run("flat payload with single role", func(t *testing.T) {
		f := setupTestFixture(t)
		f.handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"token": "flat-token", "role": "TECNOLOGO"})
		})

		session, err := f.gateway.Login(context.Background(), testUsername, testPassword)
		require.NoError(t, err)
		require.Equal(t, "TECNOLOGO", session.Role)
		require.Equal(t, "flat-token", session.Token)
	})

	t.Run("missing token leaves store untouched", func(t *testing.T) {
		f := setupTestFixture(t)
		f.handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"username": testUsername}})
		})

		_, err := f.gateway.Login(context.Background(), testUsername, testPassword)
		require.ErrorIs(t, err, apperrors.ErrMalformedResponse)
		require.Nil(t, f.store.GetCurrent())
	})

	t.Run("blank credentials never reach the network", func(t *testing.T) {
		f := setupTestFixture(t)
		f.handle(http.MethodPost, "/auth/login", loginOK(nil))

		_, err := f.gateway.Login(context.Background(), "  ", "")
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
		require.Equal(t, int32(0), f.hitCount(http.MethodPost, "/auth/login"))
	})

	t.Run("invalid credentials carry server message", func(t *testing.T) {
		f := setupTestFixture(t)
		f.handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success":           false,
				"message":           "Credenciales inválidas. Te quedan 2 intentos.",
				"remainingAttempts": 2,
				"blocked":           false,
			})
		})

		_, err := f.gateway.Login(context.Background(), testUsername, "wrong")
		var loginErr *auth.LoginError
		require.ErrorAs(t, err, &loginErr)
		require.Equal(t, http.StatusUnauthorized, loginErr.StatusCode)
		require.Equal(t, "Credenciales inválidas. Te quedan 2 intentos.", loginErr.Message)
		require.Equal(t, 2, *loginErr.RemainingAttempts)
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		require.True(t, client.IsUnauthorized(err))
		require.Nil(t, f.store.GetCurrent())
		require.Nil(t, f.gateway.Lockout())
	})

	t.Run("empty failure body uses default message", func(t *testing.T) {
		f := setupTestFixture(t)
		f.handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := f.gateway.Login(context.Background(), testUsername, testPassword)
		var loginErr *auth.LoginError
		require.ErrorAs(t, err, &loginErr)
		require.Equal(t, auth.DefaultLoginErrorMessage, loginErr.Message)
	})
}

func TestLoginLockout(t *testing.T) {
	f := setupTestFixture(t)
	unblock := f.now.Add(65 * time.Second)
	var blocked atomic.Bool
	blocked.Store(true)
	f.handle(http.MethodPost, "/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if blocked.Load() {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success":           false,
				"message":           "Cuenta bloqueada",
				"remainingAttempts": 0,
				"blocked":           true,
				"unblockTime":       unblock.Format("2006-01-02T15:04:05"),
			})
			return
		}
		loginOK([]string{"ADMIN"})(w, r)
	})

	_, err := f.gateway.Login(context.Background(), testUsername, testPassword)
	require.ErrorIs(t, err, apperrors.ErrAccountLocked)

	lockout := f.gateway.Lockout()
	require.NotNil(t, lockout)
	require.Equal(t, "1:05", lockout.Countdown(f.now))
	require.Equal(t, 65*time.Second, lockout.Remaining(f.now))

	t.Run("locked attempts skip the network", func(t *testing.T) {
		_, err := f.gateway.Login(context.Background(), testUsername, testPassword)
		require.ErrorIs(t, err, apperrors.ErrAccountLocked)
		require.Equal(t, int32(1), f.hitCount(http.MethodPost, "/auth/login"))
	})

	t.Run("lockout lapses", func(t *testing.T) {
		f.now = unblock.Add(time.Second)
		blocked.Store(false)
		require.Nil(t, f.gateway.Lockout())

		session, err := f.gateway.Login(context.Background(), testUsername, testPassword)
		require.NoError(t, err)
		require.Equal(t, "ADMIN", session.Role)
		require.Equal(t, "", lockout.Countdown(f.now))
	})
}

func TestLogout(t *testing.T) {
	t.Run("with token", func(t *testing.T) {
		f := setupTestFixture(t)
		f.handle(http.MethodPost, "/auth/login", loginOK([]string{"ADMIN"}))
		f.handle(http.MethodPost, "/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		_, err := f.gateway.Login(context.Background(), testUsername, testPassword)
		require.NoError(t, err)
		require.NoError(t, f.repo.Set(storage.KeySucursal, "Norte"))

		require.NoError(t, f.gateway.Logout(context.Background()))
		require.Equal(t, int32(1), f.hitCount(http.MethodPost, "/auth/logout"))
		require.Equal(t, "Bearer "+testToken, f.lastAuth.Load())
		require.Nil(t, f.store.GetCurrent())
		require.Empty(t, f.repo.Keys())
		require.Equal(t, []string{"logout"}, f.navigator.Reasons())
	})

	t.Run("server failure still clears", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.store.SetCurrent(sessions.Session{Username: testUsername, Token: testToken}))
		f.handle(http.MethodPost, "/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		require.NoError(t, f.gateway.Logout(context.Background()))
		require.Nil(t, f.store.GetCurrent())
		require.Len(t, f.navigator.Reasons(), 1)
	})

	t.Run("rejected token ends session once", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.store.SetCurrent(sessions.Session{Username: testUsername, Token: testToken}))
		f.handle(http.MethodPost, "/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		require.NoError(t, f.gateway.Logout(context.Background()))
		require.Nil(t, f.store.GetCurrent())
		require.Len(t, f.navigator.Reasons(), 1)
	})

	t.Run("without token skips the network", func(t *testing.T) {
		f := setupTestFixture(t)
		f.handle(http.MethodPost, "/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		require.NoError(t, f.repo.Set(storage.KeyUsuario, testUsername))

		require.NoError(t, f.gateway.Logout(context.Background()))
		require.Equal(t, int32(0), f.hitCount(http.MethodPost, "/auth/logout"))
		require.Empty(t, f.repo.Keys())
		require.Equal(t, []string{"logout"}, f.navigator.Reasons())
	})
}

func TestGetTokenInfo(t *testing.T) {
	tests := []struct {
		name        string
		body        any
		status      int
		wantErr     error
		wantMs      int64
		wantExpired bool
	}{
		{
			name:   "remaining time",
			status: http.StatusOK,
			body:   client.APIResponse[auth.TokenInfoResponse]{Success: true, Data: auth.TokenInfoResponse{TimeRemainingMs: 120000, TimeRemainingSeconds: 120}},
			wantMs: 120000,
		},
		{
			name:        "expired forces zero",
			status:      http.StatusOK,
			body:        client.APIResponse[auth.TokenInfoResponse]{Success: true, Data: auth.TokenInfoResponse{TimeRemainingMs: 5000, IsExpired: true}},
			wantExpired: true,
		},
		{
			name:    "unsuccessful envelope",
			status:  http.StatusOK,
			body:    map[string]any{"success": false, "message": "nope"},
			wantErr: apperrors.ErrMalformedResponse,
		},
		{
			name:    "missing data",
			status:  http.StatusOK,
			body:    map[string]any{"success": true},
			wantErr: apperrors.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t)
			f.handle(http.MethodGet, "/auth/token-info", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			info, err := f.gateway.GetTokenInfo(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantMs, info.TimeRemaining)
			require.Equal(t, tt.wantExpired, info.Expired)
		})
	}

	t.Run("401 is visible to the caller", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.store.SetCurrent(sessions.Session{Username: testUsername, Token: testToken}))
		f.handle(http.MethodGet, "/auth/token-info", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "expired"})
		})

		_, err := f.gateway.GetTokenInfo(context.Background())
		require.True(t, client.IsUnauthorized(err))
		require.Nil(t, f.store.GetCurrent())
	})
}

func TestUpdateSucursal(t *testing.T) {
	f := setupTestFixture(t)
	var got auth.SucursalRequest
	f.handle(http.MethodPut, "/auth/sucursal", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	err := f.gateway.UpdateSucursal(context.Background(), "Sede Norte")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	require.ErrorIs(t, f.gateway.UpdateSucursal(context.Background(), " "), apperrors.ErrInvalidRequest)

	require.NoError(t, f.store.SetCurrent(sessions.Session{Username: testUsername, Token: testToken}))
	require.NoError(t, f.gateway.UpdateSucursal(context.Background(), "Sede Norte"))
	require.Equal(t, "Sede Norte", got.Sucursal)
	require.Equal(t, "Sede Norte", f.store.GetCurrent().Sucursal)
}

func TestTerminatorEndsOnce(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.store.SetCurrent(sessions.Session{Username: testUsername, Token: testToken}))

	var (
		wg    sync.WaitGroup
		ended int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.terminator.EndSession("unauthorized") {
				atomic.AddInt32(&ended, 1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), ended)
	require.Len(t, f.navigator.Reasons(), 1)
	require.False(t, f.terminator.EndSession("again"))
}
