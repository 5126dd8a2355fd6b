package token

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-lab-console/client"
	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/jrsteele09/go-lab-console/token/jwt"
	"github.com/rs/zerolog/log"
)

// State of a Clock. Expired is terminal.
type State int

const (
	Stopped State = iota
	Running
	Expired
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Expired:
		return "expired"
	default:
		return "stopped"
	}
}

const (
	DefaultTickInterval     = 1 * time.Second
	DefaultResyncInterval   = 30 * time.Second
	DefaultWarningThreshold = 5 * time.Minute
	logoutTimeout           = 10 * time.Second
)

// TokenInfoSource asks the server how long the current token has left.
type TokenInfoSource interface {
	GetTokenInfo(ctx context.Context) (sessions.TokenInfo, error)
}

// Logouter ends the session once the clock expires.
type Logouter interface {
	Logout(ctx context.Context) error
}

// Notifier receives the user-facing clock events.
type Notifier interface {
	Warning(remaining time.Duration)
	Expired()
}

// LogNotifier writes clock events to the log.
type LogNotifier struct{}

func (LogNotifier) Warning(remaining time.Duration) {
	log.Warn().Str("remaining", Format(remaining)).Msg("[Clock] session about to expire")
}

func (LogNotifier) Expired() {
	log.Warn().Msg("[Clock] session expired")
}

// Status is a point-in-time view of a Clock.
type Status struct {
	ID          string `json:"id"`
	State       string `json:"state"`
	RemainingMs int64  `json:"remainingMs"`
	Countdown   string `json:"countdown"`
	Warned      bool   `json:"warned"`
}

// Clock estimates the remaining token lifetime locally, corrects it from the
// server periodically and logs the user out when it runs out.
type Clock struct {
	id       string
	source   TokenInfoSource
	logouter Logouter
	notifier Notifier

	tickInterval   time.Duration
	resyncInterval time.Duration
	warnAt         time.Duration
	nowTime        func() time.Time

	lock      sync.Mutex
	state     State
	remaining time.Duration
	known     bool
	warned    bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// ClockOption defines a function type to modify the Clock instance.
type ClockOption func(*Clock)

func WithTickInterval(d time.Duration) ClockOption {
	return func(c *Clock) {
		if d > 0 {
			c.tickInterval = d
		}
	}
}

func WithResyncInterval(d time.Duration) ClockOption {
	return func(c *Clock) {
		if d > 0 {
			c.resyncInterval = d
		}
	}
}

func WithWarningThreshold(d time.Duration) ClockOption {
	return func(c *Clock) {
		c.warnAt = d
	}
}

func WithNotifier(n Notifier) ClockOption {
	return func(c *Clock) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ClockOption {
	return func(c *Clock) {
		c.nowTime = nowFunc
	}
}

func NewClock(source TokenInfoSource, logouter Logouter, options ...ClockOption) *Clock {
	c := &Clock{
		id:             uuid.NewString(),
		source:         source,
		logouter:       logouter,
		notifier:       LogNotifier{},
		tickInterval:   DefaultTickInterval,
		resyncInterval: DefaultResyncInterval,
		warnAt:         DefaultWarningThreshold,
		nowTime:        time.Now,
		done:           make(chan struct{}),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Clock) ID() string {
	return c.id
}

// Seed sets a first estimate from the token's exp claim. Opaque tokens are ignored.
func (c *Clock) Seed(rawToken string) {
	exp, err := jwt.ExpiresAt(rawToken)
	if err != nil {
		log.Debug().Err(err).Str("clock", c.id).Msg("[Clock Seed] no local estimate")
		return
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	if c.state == Expired || c.known {
		return
	}
	c.remaining = max(exp.Sub(c.nowTime()), 0)
	c.known = true
}

// Start resyncs immediately and then runs the tick and resync timers until
// Stop, expiry or ctx cancellation. A clock starts at most once.
func (c *Clock) Start(ctx context.Context) {
	c.lock.Lock()
	if c.state != Stopped || c.cancel != nil {
		c.lock.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = Running
	c.lock.Unlock()

	log.Debug().Str("clock", c.id).Msg("[Clock] started")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.runTicks(ctx)
	}()
	go func() {
		defer wg.Done()
		c.runResync(ctx)
	}()
	go func() {
		wg.Wait()
		close(c.done)
	}()
}

func (c *Clock) runTicks(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

func (c *Clock) runResync(ctx context.Context) {
	c.Resync(ctx)

	ticker := time.NewTicker(c.resyncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Resync(ctx)
		}
	}
}

// Stop cancels both timers of a started clock. A stopped clock is not restarted.
func (c *Clock) Stop() {
	c.lock.Lock()
	cancel := c.cancel
	if c.state == Running {
		c.state = Stopped
	}
	c.lock.Unlock()

	if cancel != nil {
		cancel()
		log.Debug().Str("clock", c.id).Msg("[Clock] stopped")
	}
}

// Done is closed once a started clock's timers have exited. It never closes
// for a clock that was not started.
func (c *Clock) Done() <-chan struct{} {
	return c.done
}

// Tick advances the local estimate by one interval.
func (c *Clock) Tick() {
	c.lock.Lock()
	if c.state != Running || !c.known {
		c.lock.Unlock()
		return
	}

	c.remaining -= c.tickInterval
	if c.remaining <= 0 {
		c.lock.Unlock()
		c.expire("countdown reached zero")
		return
	}

	warn := !c.warned && c.remaining <= c.warnAt
	if warn {
		c.warned = true
	}
	remaining := c.remaining
	c.lock.Unlock()

	if warn {
		c.notifier.Warning(remaining)
	}
}

// Resync replaces the local estimate with the server's. A 401 expires the
// clock; any other failure keeps the current estimate.
func (c *Clock) Resync(ctx context.Context) {
	info, err := c.source.GetTokenInfo(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			c.expire("token rejected by server")
			return
		}
		if ctx.Err() == nil {
			log.Warn().Err(err).Str("clock", c.id).Msg("[Clock Resync] keeping local estimate")
		}
		return
	}
	c.Apply(info)
}

// Apply overwrites the estimate with a server reading. Server wins.
func (c *Clock) Apply(info sessions.TokenInfo) {
	if info.Expired {
		c.expire("server reports token expired")
		return
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	if c.state != Running {
		return
	}
	c.remaining = time.Duration(info.TimeRemaining) * time.Millisecond
	c.known = true
}

// expire runs at most once per clock and only from the Running state.
func (c *Clock) expire(reason string) {
	c.lock.Lock()
	if c.state != Running {
		c.lock.Unlock()
		return
	}
	c.state = Expired
	c.remaining = 0
	cancel := c.cancel
	c.lock.Unlock()

	if cancel != nil {
		cancel()
	}
	log.Info().Str("clock", c.id).Str("reason", reason).Msg("[Clock] expired")

	c.notifier.Expired()

	ctx, cancelLogout := context.WithTimeout(context.Background(), logoutTimeout)
	defer cancelLogout()
	if err := c.logouter.Logout(ctx); err != nil {
		log.Err(err).Str("clock", c.id).Msg("[Clock] logout after expiry failed")
	}
}

func (c *Clock) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

func (c *Clock) Remaining() time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.remaining
}

// Formatted renders the remaining time as MM:SS.
func (c *Clock) Formatted() string {
	return Format(c.Remaining())
}

func (c *Clock) Status() Status {
	c.lock.Lock()
	defer c.lock.Unlock()
	return Status{
		ID:          c.id,
		State:       c.state.String(),
		RemainingMs: c.remaining.Milliseconds(),
		Countdown:   Format(c.remaining),
		Warned:      c.warned,
	}
}

// Format renders d as zero-padded minutes and seconds.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
