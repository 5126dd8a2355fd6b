package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-lab-console/auth"
	"github.com/jrsteele09/go-lab-console/catalog"
	"github.com/jrsteele09/go-lab-console/client"
	"github.com/jrsteele09/go-lab-console/guard"
	"github.com/jrsteele09/go-lab-console/internal/config"
	"github.com/jrsteele09/go-lab-console/reports"
	"github.com/jrsteele09/go-lab-console/server"
	"github.com/jrsteele09/go-lab-console/sessions"
	"github.com/jrsteele09/go-lab-console/storage"
	"github.com/jrsteele09/go-lab-console/token"
	"github.com/jrsteele09/go-lab-console/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using the process environment")
	}
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running console")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Console stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	repo, err := storage.OpenSQLite(c.GetSessionDBPath())
	if err != nil {
		return fmt.Errorf("storage.OpenSQLite: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Err(err).Msg("closing session database")
		}
	}()

	store := sessions.NewStore(repo)
	notices := server.NewNoticeBoard()
	terminator := auth.NewTerminator(store, repo, notices)
	api := client.NewAuthenticated(c.GetAPIBaseURL(), c.GetAPITimeout(), store, terminator)
	gateway, err := auth.NewGateway(api, store, repo, terminator, auth.WithDefaultRole(c.GetDefaultRole()))
	if err != nil {
		return fmt.Errorf("auth.NewGateway: %w", err)
	}

	supervisor := token.NewSupervisor(store, func() *token.Clock {
		return token.NewClock(gateway, gateway,
			token.WithTickInterval(c.GetTickInterval()),
			token.WithResyncInterval(c.GetResyncInterval()),
			token.WithWarningThreshold(c.GetExpiryWarning()),
			token.WithNotifier(notices),
		)
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	supervisor.Start(ctx)
	defer supervisor.Close()

	handler, err := server.New(c, server.Services{
		Gateway:    gateway,
		Guard:      guard.New(store, notices),
		Store:      store,
		Supervisor: supervisor,
		Reports:    reports.NewService(api),
		Catalog:    catalog.NewService(api),
		Users:      users.NewService(api, store),
		Notices:    notices,
	})
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)
	return serve(&http.Server{Addr: c.GetPort(), Handler: handler}, stop)
}

// serve runs srv until stop fires or the listener fails. A failed listener is
// returned so main can retry.
func serve(srv *http.Server, stop <-chan os.Signal) error {
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(srv) }()

	select {
	case err := <-serveErr:
		return err
	case <-stop:
		return shutdown(srv)
	}
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if c.GetEnv() == "DEV" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}
	if file := c.GetLogFile(); file != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

func listenAndServe(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("Console listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe: %w", err)
	}
	return nil
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
