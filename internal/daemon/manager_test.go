// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeServer blocks in Start until Shutdown, or fails immediately with startErr.
type fakeServer struct {
	startErr    error
	shutdownErr error

	once     sync.Once
	stop     chan struct{}
	shutdown int
	mu       sync.Mutex
}

func newFakeServer() *fakeServer { return &fakeServer{stop: make(chan struct{})} }

func (f *fakeServer) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stop
	return nil
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.mu.Lock()
	f.shutdown++
	f.mu.Unlock()
	f.once.Do(func() { close(f.stop) })
	return f.shutdownErr
}

func reserveListenAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func TestNewManager_MissingServer(t *testing.T) {
	_, err := NewManager(nil, time.Second, zerolog.Nop())
	require.ErrorIs(t, err, ErrMissingServer)
}

func TestManager_ShutdownBeforeStart(t *testing.T) {
	mgr, err := NewManager(newFakeServer(), time.Second, zerolog.Nop())
	require.NoError(t, err)
	require.ErrorIs(t, mgr.Shutdown(context.Background()), ErrManagerNotStarted)
}

func TestManager_StartStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv := newFakeServer()
	mgr, err := NewManager(srv, time.Second, zerolog.Nop())
	require.NoError(t, err)

	var order []string
	mgr.RegisterShutdownHook("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	mgr.RegisterShutdownHook("second", func(context.Context) error {
		order = append(order, "second")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mgr.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop after context cancellation")
	}

	assert.Equal(t, []string{"second", "first"}, order)
	assert.Equal(t, 1, srv.shutdown)

	// Second shutdown is a no-op.
	require.NoError(t, mgr.Shutdown(context.Background()))
	assert.Equal(t, 1, srv.shutdown)
}

func TestManager_ServerFailureTriggersShutdown(t *testing.T) {
	srv := newFakeServer()
	srv.startErr = errors.New("listen tcp: address already in use")
	mgr, err := NewManager(srv, time.Second, zerolog.Nop())
	require.NoError(t, err)

	hookRan := false
	mgr.RegisterShutdownHook("cache", func(context.Context) error {
		hookRan = true
		return nil
	})

	err = mgr.Start(context.Background())
	require.ErrorIs(t, err, srv.startErr)
	assert.True(t, hookRan)
}

func TestManager_HookErrorsAreJoined(t *testing.T) {
	srv := newFakeServer()
	srv.shutdownErr = errors.New("server stuck")
	mgr, err := NewManager(srv, time.Second, zerolog.Nop())
	require.NoError(t, err)

	hookErr := errors.New("redis close failed")
	mgr.RegisterShutdownHook("cache", func(context.Context) error { return hookErr })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = mgr.Start(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, hookErr)
	assert.ErrorIs(t, err, srv.shutdownErr)
}
