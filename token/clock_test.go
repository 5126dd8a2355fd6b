package token_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-lab-console/client"
	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/jrsteele09/go-lab-console/token"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 3 * time.Second
	pollFor = 5 * time.Millisecond
)

type fakeSource struct {
	lock  sync.Mutex
	info  sessions.TokenInfo
	err   error
	calls int
}

func (f *fakeSource) GetTokenInfo(context.Context) (sessions.TokenInfo, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls++
	return f.info, f.err
}

func (f *fakeSource) set(info sessions.TokenInfo, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.info, f.err = info, err
}

func (f *fakeSource) callCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls
}

type fakeLogouter struct {
	lock  sync.Mutex
	calls int
}

func (f *fakeLogouter) Logout(context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls++
	return nil
}

func (f *fakeLogouter) count() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls
}

type recordingNotifier struct {
	lock     sync.Mutex
	warnings []time.Duration
	expired  int
}

func (r *recordingNotifier) Warning(remaining time.Duration) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.warnings = append(r.warnings, remaining)
}

func (r *recordingNotifier) Expired() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.expired++
}

func (r *recordingNotifier) counts() (int, int) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.warnings), r.expired
}

type clockFixture struct {
	source   *fakeSource
	logouter *fakeLogouter
	notifier *recordingNotifier
	clock    *token.Clock
}

func setupClock(t *testing.T, remaining time.Duration, options ...token.ClockOption) *clockFixture {
	t.Helper()
	f := &clockFixture{
		source:   &fakeSource{info: sessions.NewTokenInfo(remaining.Milliseconds(), false)},
		logouter: &fakeLogouter{},
		notifier: &recordingNotifier{},
	}
	options = append([]token.ClockOption{
		token.WithNotifier(f.notifier),
		token.WithResyncInterval(time.Hour),
	}, options...)
	f.clock = token.NewClock(f.source, f.logouter, options...)
	t.Cleanup(f.clock.Stop)
	return f
}

func (f *clockFixture) waitExpired(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return f.clock.State() == token.Expired }, waitFor, pollFor)
	select {
	case <-f.clock.Done():
	case <-time.After(waitFor):
		t.Fatal("clock timers still running after expiry")
	}
	require.Eventually(t, func() bool { return f.logouter.count() == 1 }, waitFor, pollFor)
}

func TestCountdownExpiresOnce(t *testing.T) {
	// 65 ticks of 10ms from 650ms is the scaled 65s countdown.
	f := setupClock(t, 650*time.Millisecond, token.WithTickInterval(10*time.Millisecond), token.WithWarningThreshold(0))
	f.clock.Start(context.Background())
	f.waitExpired(t)

	f.clock.Tick()
	f.clock.Apply(sessions.NewTokenInfo(60000, false))

	warnings, expired := f.notifier.counts()
	require.Equal(t, 0, warnings)
	require.Equal(t, 1, expired)
	require.Equal(t, 1, f.logouter.count())
	require.Equal(t, time.Duration(0), f.clock.Remaining())
	require.Equal(t, "00:00", f.clock.Formatted())
}

func TestWarningFiresOncePerClock(t *testing.T) {
	f := setupClock(t, 400*time.Millisecond,
		token.WithTickInterval(10*time.Millisecond),
		token.WithWarningThreshold(300*time.Millisecond))
	f.clock.Start(context.Background())

	require.Eventually(t, func() bool {
		warnings, _ := f.notifier.counts()
		return warnings == 1
	}, waitFor, pollFor)

	// Server pushes the estimate back above the threshold.
	f.clock.Apply(sessions.NewTokenInfo(500, false))
	require.Greater(t, f.clock.Remaining(), 300*time.Millisecond)

	f.waitExpired(t)
	warnings, expired := f.notifier.counts()
	require.Equal(t, 1, warnings)
	require.Equal(t, 1, expired)
	require.True(t, f.clock.Status().Warned)
}

func TestResync(t *testing.T) {
	t.Run("server expiry forces expiry", func(t *testing.T) {
		f := setupClock(t, time.Hour)
		f.source.set(sessions.NewTokenInfo(120000, true), nil)
		f.clock.Start(context.Background())
		f.waitExpired(t)
		_, expired := f.notifier.counts()
		require.Equal(t, 1, expired)
	})

	t.Run("401 expires", func(t *testing.T) {
		f := setupClock(t, time.Hour)
		f.source.set(sessions.TokenInfo{}, &client.HTTPError{StatusCode: http.StatusUnauthorized, Message: "expired"})
		f.clock.Start(context.Background())
		f.waitExpired(t)
	})

	t.Run("other errors keep the estimate", func(t *testing.T) {
		f := setupClock(t, time.Hour, token.WithResyncInterval(10*time.Millisecond))
		f.clock.Start(context.Background())
		require.Eventually(t, func() bool { return f.clock.Remaining() == time.Hour }, waitFor, pollFor)

		f.source.set(sessions.TokenInfo{}, errors.New("connection refused"))
		before := f.source.callCount()
		require.Eventually(t, func() bool { return f.source.callCount() > before+2 }, waitFor, pollFor)
		require.Equal(t, token.Running, f.clock.State())
		require.Equal(t, 0, f.logouter.count())
	})

	t.Run("server wins over local estimate", func(t *testing.T) {
		f := setupClock(t, 10*time.Minute)
		f.clock.Start(context.Background())
		require.Eventually(t, func() bool { return f.clock.Remaining() == 10*time.Minute }, waitFor, pollFor)

		f.clock.Apply(sessions.NewTokenInfo(90000, false))
		require.Equal(t, "01:30", f.clock.Formatted())
	})
}

func TestStop(t *testing.T) {
	f := setupClock(t, 500*time.Millisecond, token.WithTickInterval(10*time.Millisecond))
	f.clock.Start(context.Background())
	require.Eventually(t, func() bool { return f.source.callCount() == 1 }, waitFor, pollFor)

	f.clock.Stop()
	select {
	case <-f.clock.Done():
	case <-time.After(waitFor):
		t.Fatal("timers still running after stop")
	}
	require.Equal(t, token.Stopped, f.clock.State())

	remaining := f.clock.Remaining()
	f.clock.Tick()
	require.Equal(t, remaining, f.clock.Remaining())

	f.clock.Start(context.Background())
	require.Equal(t, token.Stopped, f.clock.State())
	require.Equal(t, 0, f.logouter.count())
}

func TestSeedFromJWT(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "jdoe",
		"exp": now.Add(7 * time.Minute).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	c := token.NewClock(&fakeSource{}, &fakeLogouter{}, token.WithNowTime(func() time.Time { return now }))
	c.Seed(raw)
	require.Equal(t, 7*time.Minute, c.Remaining())
	require.Equal(t, "07:00", c.Formatted())

	opaque := token.NewClock(&fakeSource{}, &fakeLogouter{})
	opaque.Seed("opaque")
	require.Equal(t, time.Duration(0), opaque.Remaining())
}

func TestFormat(t *testing.T) {
	for d, want := range map[time.Duration]string{
		0:                                    "00:00",
		-time.Second:                         "00:00",
		65 * time.Second:                     "01:05",
		5*time.Minute + 999*time.Millisecond: "05:00",
		90 * time.Minute:                     "90:00",
	} {
		require.Equal(t, want, token.Format(d))
	}
}
