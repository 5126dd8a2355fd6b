package main

import (
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServe(t *testing.T) {
	t.Run("address in use returns", func(t *testing.T) {
		taken, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer taken.Close()

		done := make(chan error, 1)
		go func() { done <- serve(&http.Server{Addr: taken.Addr().String()}, make(chan os.Signal)) }()

		select {
		case err := <-done:
			require.Error(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("serve kept waiting after the listener failed")
		}
	})

	t.Run("stop signal shuts down", func(t *testing.T) {
		stop := make(chan os.Signal, 1)
		stop <- os.Interrupt
		require.NoError(t, serve(&http.Server{Addr: "127.0.0.1:0"}, stop))
	})
}
