package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-lab-console/guard"
	"github.com/jrsteele09/go-lab-console/internal/utils"
	"github.com/jrsteele09/go-lab-console/token"
	"github.com/rs/zerolog/log"
)

// NoticeKind classifies a user-visible notice.
type NoticeKind string

const (
	NoticeWarning NoticeKind = "warning"
	NoticeExpired NoticeKind = "expired"
	NoticeLogin   NoticeKind = "login"
)

// Notice is the last thing the console has to tell the user.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	At      time.Time  `json:"at"`
}

// NoticeBoard collects clock and navigation events for display. It is both the
// clock notifier and the navigator of the console.
type NoticeBoard struct {
	lock    sync.RWMutex
	latest  *Notice
	nowTime func() time.Time
}

var (
	_ token.Notifier  = (*NoticeBoard)(nil)
	_ guard.Navigator = (*NoticeBoard)(nil)
)

func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{nowTime: time.Now}
}

func (n *NoticeBoard) Warning(remaining time.Duration) {
	n.post(NoticeWarning, fmt.Sprintf("Tu sesión expirará en %s", token.Format(remaining)))
}

func (n *NoticeBoard) Expired() {
	n.post(NoticeExpired, "Tu sesión ha expirado. Por favor inicia sesión nuevamente.")
}

// ToLogin records that the user must sign in again.
func (n *NoticeBoard) ToLogin(reason string) {
	log.Info().Str("reason", reason).Msg("[Notices] redirect to login")
	n.lock.Lock()
	defer n.lock.Unlock()
	if n.latest != nil && n.latest.Kind == NoticeExpired {
		return
	}
	n.latest = &Notice{Kind: NoticeLogin, Message: "Inicia sesión para continuar.", At: n.nowTime()}
}

// Latest returns a copy of the most recent notice, nil when there is none.
func (n *NoticeBoard) Latest() *Notice {
	n.lock.RLock()
	defer n.lock.RUnlock()
	if n.latest == nil {
		return nil
	}
	return utils.Ptr(*n.latest)
}

// Dismiss clears the current notice.
func (n *NoticeBoard) Dismiss() {
	n.lock.Lock()
	n.latest = nil
	n.lock.Unlock()
}

func (n *NoticeBoard) post(kind NoticeKind, message string) {
	n.lock.Lock()
	n.latest = &Notice{Kind: kind, Message: message, At: n.nowTime()}
	n.lock.Unlock()
}
