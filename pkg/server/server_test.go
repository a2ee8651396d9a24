package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/seqmux/seqmux/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStopsOnContextCancel(t *testing.T) {
	r := router.NewRouter(router.RouterConfig{})
	s := New(Config{Port: 0, Hostname: "127.0.0.1"}, r, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Give the listener a moment to come up before asking it to stop.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestRunReportsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	r := router.NewRouter(router.RouterConfig{})
	s := New(Config{Port: port, Hostname: "127.0.0.1"}, r, nil)

	err = s.Run(context.Background())
	assert.Error(t, err)
}
