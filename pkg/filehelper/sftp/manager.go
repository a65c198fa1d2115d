package sftpmanager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

var (
	globalManager *Manager
	once          sync.Once
)

// Default configuration values
const (
	DefaultMaxIdleTime       = 5 * time.Minute
	DefaultConnectTimeout    = 10 * time.Second
	DefaultMaxRetries        = 3
	DefaultRetryDelay        = 1 * time.Second
	DefaultKeepAliveInterval = 30 * time.Second
	DefaultMaxConnections    = 10
	DefaultCleanupInterval   = 2 * time.Minute
)

// ErrPoolExhausted is returned when a new connection would exceed MaxConnections.
var ErrPoolExhausted = errors.New("connection pool limit reached")

// ConnectionDetails holds the information needed to establish an SFTP connection
type ConnectionDetails struct {
	Hostname          string
	Port              int
	Username          string
	Password          string
	ConnectTimeout    time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	KeepAliveInterval time.Duration
	// HostKeyCallback overrides the known_hosts check configured on the manager.
	HostKeyCallback ssh.HostKeyCallback
}

// String returns the pool key of the connection. It never contains the password.
func (cd ConnectionDetails) String() string {
	return fmt.Sprintf("%s@%s:%d", cd.Username, cd.Hostname, cd.Port)
}

// applyDefaults sets default values for unspecified fields
func (cd *ConnectionDetails) applyDefaults() {
	if cd.Port == 0 {
		cd.Port = 22
	}
	if cd.ConnectTimeout == 0 {
		cd.ConnectTimeout = DefaultConnectTimeout
	}
	if cd.MaxRetries == 0 {
		cd.MaxRetries = DefaultMaxRetries
	}
	if cd.RetryDelay == 0 {
		cd.RetryDelay = DefaultRetryDelay
	}
	if cd.KeepAliveInterval == 0 {
		cd.KeepAliveInterval = DefaultKeepAliveInterval
	}
}

// DialFunc opens an SFTP client. The returned closer releases the transport
// underneath it (the SSH connection for real dials).
type DialFunc func(ctx context.Context, details ConnectionDetails) (*sftp.Client, io.Closer, error)

// clientInfo holds the SFTP client and its last used timestamp
type clientInfo struct {
	client    *sftp.Client
	transport io.Closer
	lastUsed  time.Time
	// leases counts the holders that pinned the client with Acquire.
	leases int
}

func (ci *clientInfo) close() {
	ci.client.Close()
	if ci.transport != nil {
		ci.transport.Close()
	}
}

// ManagerConfig holds the configuration for the SFTP manager
type ManagerConfig struct {
	MaxIdleTime     time.Duration
	MaxConnections  int
	CleanupInterval time.Duration
	// KnownHostsFile defaults to ~/.ssh/known_hosts.
	KnownHostsFile string
	// InsecureIgnoreHostKey disables host key checking entirely.
	InsecureIgnoreHostKey bool
	// Dial replaces the SSH dialer, mainly for tests.
	Dial   DialFunc
	Logger *log.Logger
}

// Manager handles SFTP client pooling and lifecycle
type Manager struct {
	clients   map[string]*clientInfo
	mu        sync.RWMutex
	config    ManagerConfig
	done      chan struct{}
	closeOnce sync.Once
}

// NewManager creates a new Manager with the given configuration
func NewManager(config ManagerConfig) *Manager {
	if config.MaxIdleTime == 0 {
		config.MaxIdleTime = DefaultMaxIdleTime
	}
	if config.MaxConnections == 0 {
		config.MaxConnections = DefaultMaxConnections
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = DefaultCleanupInterval
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr, "sftp: ", log.LstdFlags)
	}

	m := &Manager{
		clients: make(map[string]*clientInfo),
		config:  config,
		done:    make(chan struct{}),
	}
	if m.config.Dial == nil {
		m.config.Dial = m.dialSSH
	}
	go m.cleanup()
	return m
}

// GetGlobalManager returns the global SFTP manager instance, creating it if needed
func GetGlobalManager() *Manager {
	once.Do(func() {
		globalManager = NewManager(ManagerConfig{})
	})
	return globalManager
}

// GetClient is a convenience function that uses the global manager
func GetClient(ctx context.Context, details ConnectionDetails) (*sftp.Client, error) {
	return GetGlobalManager().GetClient(ctx, details)
}

// GetClient returns a pooled SFTP client for the given connection details,
// dialing a new one if none is alive.
func (m *Manager) GetClient(ctx context.Context, details ConnectionDetails) (*sftp.Client, error) {
	info, err := m.get(ctx, details, false)
	if err != nil {
		return nil, err
	}
	return info.client, nil
}

// Acquire is GetClient for long-lived holders. The client stays pinned in the
// pool, and is never evicted as idle, until the lease is released.
func (m *Manager) Acquire(ctx context.Context, details ConnectionDetails) (*Lease, error) {
	info, err := m.get(ctx, details, true)
	if err != nil {
		return nil, err
	}
	return &Lease{manager: m, info: info}, nil
}

func (m *Manager) get(ctx context.Context, details ConnectionDetails, pin bool) (*clientInfo, error) {
	details.applyDefaults()
	key := details.String()

	if info, ok := m.getExistingClient(key, pin); ok {
		return info, nil
	}

	m.mu.RLock()
	full := len(m.clients) >= m.config.MaxConnections
	m.mu.RUnlock()
	if full {
		return nil, fmt.Errorf("%w (%d)", ErrPoolExhausted, m.config.MaxConnections)
	}

	var err error
	for attempt := 0; attempt <= details.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(details.RetryDelay):
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var info *clientInfo
		if info, err = m.createNewClient(ctx, key, details, pin); err == nil {
			return info, nil
		}
	}
	return nil, fmt.Errorf("failed to create client for %s after %d attempts: %w", key, details.MaxRetries+1, err)
}

func (m *Manager) getExistingClient(key string, pin bool) (*clientInfo, bool) {
	m.mu.Lock()
	info, exists := m.clients[key]
	if exists {
		info.lastUsed = time.Now()
		if pin {
			info.leases++
		}
	}
	m.mu.Unlock()

	if !exists {
		return nil, false
	}

	// Test if connection is still alive
	if _, err := info.client.Getwd(); err == nil {
		return info, true
	}

	m.mu.Lock()
	if pin {
		info.leases--
	}
	if m.clients[key] == info {
		delete(m.clients, key)
	}
	m.mu.Unlock()
	info.close()
	return nil, false
}

func (m *Manager) createNewClient(ctx context.Context, key string, details ConnectionDetails, pin bool) (*clientInfo, error) {
	client, transport, err := m.config.Dial(ctx, details)
	if err != nil {
		return nil, err
	}

	info := &clientInfo{
		client:    client,
		transport: transport,
		lastUsed:  time.Now(),
	}

	m.mu.Lock()
	if existing, ok := m.clients[key]; ok {
		// Lost a race with another caller; keep theirs.
		if pin {
			existing.leases++
		}
		m.mu.Unlock()
		info.close()
		return existing, nil
	}
	if pin {
		info.leases++
	}
	m.clients[key] = info
	m.mu.Unlock()

	return info, nil
}

func (m *Manager) dialSSH(ctx context.Context, details ConnectionDetails) (*sftp.Client, io.Closer, error) {
	hostKeyCallback, err := m.hostKeyCallback(details)
	if err != nil {
		return nil, nil, err
	}

	sshConfig := &ssh.ClientConfig{
		User:            details.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(details.Password)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         details.ConnectTimeout,
	}

	sshClient, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", details.Hostname, details.Port), sshConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial SSH: %w", err)
	}

	if details.KeepAliveInterval > 0 {
		go m.keepAlive(sshClient, details.KeepAliveInterval)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, nil, fmt.Errorf("failed to create SFTP client: %w", err)
	}
	return sftpClient, sshClient, nil
}

func (m *Manager) hostKeyCallback(details ConnectionDetails) (ssh.HostKeyCallback, error) {
	if details.HostKeyCallback != nil {
		return details.HostKeyCallback, nil
	}
	if m.config.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}

	file := m.config.KnownHostsFile
	if file == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate known_hosts: %w", err)
		}
		file = filepath.Join(home, ".ssh", "known_hosts")
	}

	callback, err := knownhosts.New(file)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts %s: %w", file, err)
	}
	return callback, nil
}

func (m *Manager) keepAlive(client *ssh.Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, _, err := client.SendRequest("keepalive@openssh.com", true, nil); err != nil {
				m.config.Logger.Printf("keepalive to %s failed: %v", client.RemoteAddr(), err)
				return
			}
		case <-m.done:
			return
		}
	}
}

// cleanup periodically checks for and removes idle connections
func (m *Manager) cleanup() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle(time.Now())
		case <-m.done:
			return
		}
	}
}

func (m *Manager) evictIdle(now time.Time) {
	m.mu.Lock()
	var idle []*clientInfo
	for key, info := range m.clients {
		if info.leases == 0 && now.Sub(info.lastUsed) > m.config.MaxIdleTime {
			idle = append(idle, info)
			delete(m.clients, key)
		}
	}
	m.mu.Unlock()

	for _, info := range idle {
		info.close()
	}
}

// Close closes all connections and stops the cleanup goroutine. It is safe
// to call more than once.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, info := range m.clients {
		info.close()
	}

	m.clients = make(map[string]*clientInfo)
}

// Lease is a pinned pool client handed out by Acquire.
type Lease struct {
	manager *Manager
	info    *clientInfo
	once    sync.Once
}

func (l *Lease) Client() *sftp.Client {
	return l.info.client
}

// Release unpins the client. The idle timer starts over from the release.
// Releasing twice is a no-op.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.manager.mu.Lock()
		l.info.leases--
		l.info.lastUsed = time.Now()
		l.manager.mu.Unlock()
	})
}

// Stats returns current connection statistics
func (m *Manager) Stats() map[string]time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make(map[string]time.Time, len(m.clients))
	for key, info := range m.clients {
		stats[key] = info.lastUsed
	}
	return stats
}
