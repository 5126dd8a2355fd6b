package server

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
)

const consoleCookieName = "lab_console"

// consoleKey binds the browser that logged in to the API session the process holds.
// A key is only good for the token it was issued with.
type consoleKey struct {
	lock  sync.Mutex
	value string
	token string
}

func (k *consoleKey) issue(token string) string {
	k.lock.Lock()
	defer k.lock.Unlock()
	k.value = uuid.NewString()
	k.token = token
	return k.value
}

func (k *consoleKey) matches(value, token string) bool {
	k.lock.Lock()
	defer k.lock.Unlock()
	if k.value == "" || value == "" || token == "" {
		return false
	}
	if k.token != token {
		// The session it was issued for is gone.
		k.value, k.token = "", ""
		return false
	}
	return subtle.ConstantTimeCompare([]byte(k.value), []byte(value)) == 1
}

func (k *consoleKey) revoke() {
	k.lock.Lock()
	k.value, k.token = "", ""
	k.lock.Unlock()
}

func setConsoleCookie(w http.ResponseWriter, r *http.Request, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     consoleCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearConsoleCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     consoleCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

// ownsSession reports whether the caller presented the key of the held session.
func (s *Server) ownsSession(r *http.Request) bool {
	session := s.store.GetCurrent()
	if !session.Valid() {
		return false
	}
	cookie, err := r.Cookie(consoleCookieName)
	if err != nil {
		return false
	}
	return s.consoleKey.matches(cookie.Value, session.Token)
}

// sameOrigin is true when origin names the host the request was sent to.
func sameOrigin(origin string, r *http.Request) bool {
	u, err := url.Parse(origin)
	return err == nil && u.Host != "" && u.Host == r.Host
}
