package connectivity

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

func (f dialFunc) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return f(ctx, network, address)
}

func TestTCPChecker_OnlineAgainstLocalListener(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	checker := NewTCPChecker(ln.Addr().String(), time.Second)
	assert.True(t, checker.IsOnline(context.Background()))
}

func TestTCPChecker_OfflineWhenDialFails(t *testing.T) {
	t.Parallel()

	var gotAddress string
	checker := NewTCPChecker("", 0, WithDialer(dialFunc(func(_ context.Context, network, address string) (net.Conn, error) {
		assert.Equal(t, "tcp", network)
		gotAddress = address
		return nil, errors.New("network is unreachable")
	})))

	assert.False(t, checker.IsOnline(context.Background()))
	assert.Equal(t, DefaultProbeAddress, gotAddress)
}

func TestTCPChecker_AppliesTimeout(t *testing.T) {
	t.Parallel()

	checker := NewTCPChecker("10.255.255.1:53", 20*time.Millisecond, WithDialer(dialFunc(func(ctx context.Context, _, _ string) (net.Conn, error) {
		deadline, ok := ctx.Deadline()
		assert.True(t, ok, "probe context should carry a deadline")
		assert.WithinDuration(t, time.Now().Add(20*time.Millisecond), deadline, time.Second)
		<-ctx.Done()
		return nil, ctx.Err()
	})))

	assert.False(t, checker.IsOnline(context.Background()))
}

func TestStatic(t *testing.T) {
	t.Parallel()

	assert.True(t, Static(true).IsOnline(context.Background()))
	assert.False(t, Static(false).IsOnline(context.Background()))
}
