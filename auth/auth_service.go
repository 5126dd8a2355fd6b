package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-lab-console/client"
	apperrors "github.com/jrsteele09/go-lab-console/internal/errors"
	"github.com/jrsteele09/go-lab-console/internal/utils"
	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/jrsteele09/go-lab-console/storage"
	"github.com/jrsteele09/go-lab-console/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Remote auth endpoints, relative to the API base URL.
const (
	loginPath     = "/auth/login"
	logoutPath    = "/auth/logout"
	tokenInfoPath = "/auth/token-info"
	sucursalPath  = "/auth/sucursal"
)

// DefaultRole is assigned when the server returns no roles.
const DefaultRole = string(users.RolePaciente)

// API is the subset of the JSON client the gateway uses.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
}

var _ API = (*client.Client)(nil)

// Gateway wraps the remote auth endpoints and keeps the session store in step.
type Gateway struct {
	api         API
	store       *sessions.Store
	repo        storage.Repo
	terminator  *Terminator
	defaultRole string
	nowTime     func() time.Time

	lockoutLock sync.Mutex
	lockout     *Lockout
}

// GatewayOption defines a function type to modify the Gateway instance.
type GatewayOption func(*Gateway)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) GatewayOption {
	return func(g *Gateway) {
		g.nowTime = nowFunc
	}
}

// WithDefaultRole overrides the role used when the server returns none.
func WithDefaultRole(role string) GatewayOption {
	return func(g *Gateway) {
		if role != "" {
			g.defaultRole = role
		}
	}
}

func NewGateway(api API, store *sessions.Store, repo storage.Repo, terminator *Terminator, options ...GatewayOption) (*Gateway, error) {
	if api == nil {
		return nil, errors.New("[NewGateway] api client is required")
	}
	if store == nil {
		return nil, errors.New("[NewGateway] session store is required")
	}
	if repo == nil {
		return nil, errors.New("[NewGateway] storage repo is required")
	}
	if terminator == nil {
		return nil, errors.New("[NewGateway] terminator is required")
	}

	g := &Gateway{
		api:         api,
		store:       store,
		repo:        repo,
		terminator:  terminator,
		defaultRole: DefaultRole,
		nowTime:     time.Now,
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// Login authenticates against the API and, on success only, stores the session.
func (g *Gateway) Login(ctx context.Context, username, password string) (*sessions.Session, error) {
	if err := ValidateCredentials(username, password); err != nil {
		return nil, err
	}
	if lockout := g.Lockout(); lockout != nil {
		return nil, &LoginError{
			StatusCode:  http.StatusTooManyRequests,
			Message:     lockout.Message,
			Blocked:     true,
			UnblockTime: lockout.Until,
		}
	}

	var envelope loginEnvelope
	err := g.api.Post(ctx, loginPath, LoginRequest{Username: username, Password: password}, &envelope)
	if err != nil {
		return nil, g.loginError(err)
	}
	if envelope.Success != nil && !*envelope.Success {
		return nil, &LoginError{StatusCode: http.StatusOK, Message: messageOrDefault(envelope.Message)}
	}

	resp := envelope.response()
	if resp.Token == "" {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedResponse, "[Gateway Login] missing token")
	}

	session := sessions.Session{
		Username:    username,
		FirstName:   resp.FirstName,
		LastName:    resp.LastName,
		Role:        g.primaryRole(resp),
		Sexo:        resp.Sexo,
		Token:       resp.Token,
		UserID:      resp.UserID,
		Email:       resp.Email,
		Roles:       resp.Roles,
		Permissions: resp.Permissions,
	}
	if err := g.store.SetCurrent(session); err != nil {
		log.Err(err).Msg("[Gateway Login] session held in memory only")
	}
	g.clearLockout()
	g.writeUserKeys(session)

	log.Info().Str("username", username).Str("role", session.Role).Msg("[Gateway Login] signed in")
	return g.store.GetCurrent(), nil
}

func (g *Gateway) primaryRole(resp LoginResponse) string {
	if len(resp.Roles) > 0 && resp.Roles[0] != "" {
		return resp.Roles[0]
	}
	if resp.Role != "" {
		return resp.Role
	}
	return g.defaultRole
}

func (g *Gateway) writeUserKeys(session sessions.Session) {
	values := map[string]string{
		storage.KeyUsuario:      session.Username,
		storage.KeyUserFullName: session.DisplayName(),
	}
	if session.UserID != 0 {
		values[storage.KeyUserID] = strconv.FormatInt(session.UserID, 10)
	}
	for key, value := range values {
		if err := g.repo.Set(key, value); err != nil {
			log.Err(err).Str("key", key).Msg("[Gateway Login] unable to persist user key")
		}
	}
}

// loginError converts a failed login call into a LoginError, recording any lockout.
func (g *Gateway) loginError(err error) error {
	var httpErr *client.HTTPError
	if !errors.As(err, &httpErr) {
		return errors.Wrap(err, "[Gateway Login]")
	}

	loginErr := &LoginError{StatusCode: httpErr.StatusCode, Message: DefaultLoginErrorMessage, cause: httpErr}
	var body loginFailure
	if json.Unmarshal(httpErr.Body, &body) == nil {
		loginErr.Message = messageOrDefault(body.Message)
		loginErr.RemainingAttempts = body.RemainingAttempts
		loginErr.Blocked = body.Blocked
		if until, ok := parseUnblockTime(body.UnblockTime); ok && body.Blocked {
			loginErr.UnblockTime = until
			g.setLockout(&Lockout{Until: until, Message: loginErr.Message})
		}
	}
	return loginErr
}

func messageOrDefault(message string) string {
	if strings.TrimSpace(message) == "" {
		return DefaultLoginErrorMessage
	}
	return message
}

// Lockout returns the active lockout, nil when logins are allowed.
func (g *Gateway) Lockout() *Lockout {
	g.lockoutLock.Lock()
	defer g.lockoutLock.Unlock()

	if !g.lockout.Active(g.nowTime()) {
		g.lockout = nil
		return nil
	}
	return utils.Ptr(*g.lockout)
}

func (g *Gateway) setLockout(l *Lockout) {
	g.lockoutLock.Lock()
	defer g.lockoutLock.Unlock()
	g.lockout = l
}

func (g *Gateway) clearLockout() {
	g.setLockout(nil)
}

// Logout notifies the server when a token is held, then always clears local
// state and navigates to login. Server errors are logged, never returned.
func (g *Gateway) Logout(ctx context.Context) error {
	hadToken := g.store.GetCurrent().Valid()
	if hadToken {
		if err := g.api.Post(ctx, logoutPath, nil, nil); err != nil {
			log.Err(err).Msg("[Gateway Logout] server logout failed, continuing locally")
		}
	}

	// A 401 from the logout call has already ended the session and navigated.
	if !g.terminator.EndSession("logout") && !hadToken {
		g.terminator.cleanup()
		g.terminator.navigator.ToLogin("logout")
	}
	return nil
}

// GetTokenInfo asks the server how long the current token has left.
func (g *Gateway) GetTokenInfo(ctx context.Context) (sessions.TokenInfo, error) {
	var resp client.APIResponse[*TokenInfoResponse]
	if err := g.api.Get(ctx, tokenInfoPath, &resp); err != nil {
		return sessions.TokenInfo{}, errors.Wrap(err, "[Gateway GetTokenInfo]")
	}
	data, err := resp.Unwrap()
	if err != nil {
		return sessions.TokenInfo{}, errors.Wrap(err, "[Gateway GetTokenInfo]")
	}
	if data == nil {
		return sessions.TokenInfo{}, apperrors.Wrapf(apperrors.ErrMalformedResponse, "[Gateway GetTokenInfo] missing data")
	}
	return sessions.NewTokenInfo(data.TimeRemainingMs, data.IsExpired), nil
}

// UpdateSucursal records the selected branch remotely and on the session.
func (g *Gateway) UpdateSucursal(ctx context.Context, sucursal string) error {
	if err := ValidateSucursal(sucursal); err != nil {
		return err
	}
	if !g.store.GetCurrent().Valid() {
		return apperrors.Wrapf(apperrors.ErrSessionNotFound, "[Gateway UpdateSucursal]")
	}
	if err := g.api.Put(ctx, sucursalPath, SucursalRequest{Sucursal: sucursal}, nil); err != nil {
		return errors.Wrap(err, "[Gateway UpdateSucursal]")
	}
	return g.store.SetSucursal(sucursal)
}
