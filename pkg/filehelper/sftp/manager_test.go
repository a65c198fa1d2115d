package sftpmanager

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ImGajeed76/filehelper/internal/sftptest"
	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// memoryDialer dials in-memory servers and counts how often it was called.
func memoryDialer(calls *atomic.Int32) DialFunc {
	return func(ctx context.Context, details ConnectionDetails) (*sftp.Client, io.Closer, error) {
		calls.Add(1)
		client, stop, err := sftptest.Dial()
		if err != nil {
			return nil, nil, err
		}
		return client, closerFunc(stop), nil
	}
}

func testDetails(user string) ConnectionDetails {
	return ConnectionDetails{
		Hostname:   "files.local",
		Port:       2222,
		Username:   user,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	}
}

func TestNewManager(t *testing.T) {
	tests := []struct {
		name   string
		config ManagerConfig
		want   ManagerConfig
	}{
		{
			name:   "default configuration",
			config: ManagerConfig{},
			want: ManagerConfig{
				MaxIdleTime:     DefaultMaxIdleTime,
				MaxConnections:  DefaultMaxConnections,
				CleanupInterval: DefaultCleanupInterval,
			},
		},
		{
			name: "custom configuration",
			config: ManagerConfig{
				MaxIdleTime:     10 * time.Minute,
				MaxConnections:  5,
				CleanupInterval: 1 * time.Minute,
			},
			want: ManagerConfig{
				MaxIdleTime:     10 * time.Minute,
				MaxConnections:  5,
				CleanupInterval: 1 * time.Minute,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewManager(tt.config)
			defer manager.Close()

			assert.Equal(t, tt.want.MaxIdleTime, manager.config.MaxIdleTime)
			assert.Equal(t, tt.want.MaxConnections, manager.config.MaxConnections)
			assert.Equal(t, tt.want.CleanupInterval, manager.config.CleanupInterval)
			assert.NotNil(t, manager.config.Logger)
			assert.NotNil(t, manager.config.Dial)
		})
	}
}

func TestConnectionDetails_Defaults(t *testing.T) {
	details := ConnectionDetails{Hostname: "files.local", Username: "alice", Password: "secret"}
	details.applyDefaults()

	assert.Equal(t, 22, details.Port)
	assert.Equal(t, DefaultConnectTimeout, details.ConnectTimeout)
	assert.Equal(t, DefaultMaxRetries, details.MaxRetries)
	assert.Equal(t, DefaultRetryDelay, details.RetryDelay)
	assert.Equal(t, DefaultKeepAliveInterval, details.KeepAliveInterval)
	assert.Equal(t, "alice@files.local:22", details.String())
	assert.NotContains(t, details.String(), "secret")
}

func TestConnectionPool(t *testing.T) {
	var calls atomic.Int32
	manager := NewManager(ManagerConfig{
		MaxConnections: 2,
		Dial:           memoryDialer(&calls),
	})
	defer manager.Close()

	ctx := context.Background()

	client1, err := manager.GetClient(ctx, testDetails("alice"))
	require.NoError(t, err)

	client2, err := manager.GetClient(ctx, testDetails("alice"))
	require.NoError(t, err)
	assert.Same(t, client1, client2, "expected the pooled client")
	assert.Equal(t, int32(1), calls.Load())

	_, err = manager.GetClient(ctx, testDetails("bob"))
	require.NoError(t, err)

	_, err = manager.GetClient(ctx, testDetails("carol"))
	assert.ErrorIs(t, err, ErrPoolExhausted)

	// A full pool still hands out existing clients.
	again, err := manager.GetClient(ctx, testDetails("alice"))
	require.NoError(t, err)
	assert.Same(t, client1, again)
}

func TestGetClient_Retries(t *testing.T) {
	var calls atomic.Int32
	dialErr := errors.New("connection refused")
	manager := NewManager(ManagerConfig{
		Dial: func(ctx context.Context, details ConnectionDetails) (*sftp.Client, io.Closer, error) {
			calls.Add(1)
			return nil, nil, dialErr
		},
	})
	defer manager.Close()

	details := testDetails("alice")
	details.MaxRetries = 2

	_, err := manager.GetClient(context.Background(), details)
	require.Error(t, err)
	assert.ErrorIs(t, err, dialErr)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetClient_Cancelled(t *testing.T) {
	manager := NewManager(ManagerConfig{
		Dial: func(ctx context.Context, details ConnectionDetails) (*sftp.Client, io.Closer, error) {
			return nil, nil, errors.New("unreachable")
		},
	})
	defer manager.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := manager.GetClient(ctx, testDetails("alice"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeadClientIsReplaced(t *testing.T) {
	var calls atomic.Int32
	manager := NewManager(ManagerConfig{Dial: memoryDialer(&calls)})
	defer manager.Close()

	ctx := context.Background()
	first, err := manager.GetClient(ctx, testDetails("alice"))
	require.NoError(t, err)

	require.NoError(t, first.Close())

	second, err := manager.GetClient(ctx, testDetails("alice"))
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEvictIdle(t *testing.T) {
	var calls atomic.Int32
	manager := NewManager(ManagerConfig{
		MaxIdleTime: time.Minute,
		Dial:        memoryDialer(&calls),
	})
	defer manager.Close()

	_, err := manager.GetClient(context.Background(), testDetails("alice"))
	require.NoError(t, err)
	require.Len(t, manager.Stats(), 1)

	manager.evictIdle(time.Now())
	assert.Len(t, manager.Stats(), 1, "recently used client must survive")

	manager.evictIdle(time.Now().Add(2 * time.Minute))
	assert.Empty(t, manager.Stats())
}

func TestAcquire_PinsClient(t *testing.T) {
	var calls atomic.Int32
	manager := NewManager(ManagerConfig{
		MaxIdleTime: time.Minute,
		Dial:        memoryDialer(&calls),
	})
	defer manager.Close()

	ctx := context.Background()
	lease, err := manager.Acquire(ctx, testDetails("alice"))
	require.NoError(t, err)

	client, err := manager.GetClient(ctx, testDetails("alice"))
	require.NoError(t, err)
	assert.Same(t, lease.Client(), client)

	second, err := manager.Acquire(ctx, testDetails("alice"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	later := time.Now().Add(time.Hour)
	manager.evictIdle(later)
	assert.Len(t, manager.Stats(), 1, "leased client must survive")

	lease.Release()
	lease.Release()
	manager.evictIdle(later)
	assert.Len(t, manager.Stats(), 1, "one lease is still held")

	second.Release()
	manager.evictIdle(time.Now())
	assert.Len(t, manager.Stats(), 1, "idle timer restarts on release")

	manager.evictIdle(later)
	assert.Empty(t, manager.Stats())
}

func TestClose_Idempotent(t *testing.T) {
	var calls atomic.Int32
	manager := NewManager(ManagerConfig{Dial: memoryDialer(&calls)})

	_, err := manager.GetClient(context.Background(), testDetails("alice"))
	require.NoError(t, err)

	manager.Close()
	manager.Close()
	assert.Empty(t, manager.Stats())
}

func TestHostKeyCallback_MissingKnownHosts(t *testing.T) {
	manager := NewManager(ManagerConfig{KnownHostsFile: t.TempDir() + "/missing_known_hosts"})
	defer manager.Close()

	_, err := manager.hostKeyCallback(ConnectionDetails{})
	assert.Error(t, err)

	insecure := NewManager(ManagerConfig{InsecureIgnoreHostKey: true})
	defer insecure.Close()

	callback, err := insecure.hostKeyCallback(ConnectionDetails{})
	require.NoError(t, err)
	assert.NotNil(t, callback)
}

func TestGlobalManager(t *testing.T) {
	manager1 := GetGlobalManager()
	manager2 := GetGlobalManager()

	assert.Same(t, manager1, manager2)
}
