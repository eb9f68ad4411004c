package sshexec

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

const (
	// connectTimeoutSeconds bounds how long any single ssh/scp/rsync
	// invocation waits to establish a connection.
	connectTimeoutSeconds = 8
	// controlPersistSeconds keeps a multiplexed control master alive for
	// this long after its last client disconnects, so back-to-back
	// per-file commands within one run reuse the same connection.
	controlPersistSeconds = 600
)

// Manager owns one SSH control-master socket per host for the lifetime of
// a run, per spec.md §4.3/§9: "a per-host control master is established
// on first use and reused across all subsequent commands in the run; a
// control socket is cleaned up at engine shutdown."
type Manager struct {
	mu      sync.Mutex
	sockDir string
	opened  map[string]bool
}

// NewManager creates a Manager with a private directory for control
// sockets. Callers must call Close to tear down every opened master and
// remove the directory.
func NewManager() (*Manager, error) {
	dir, err := os.MkdirTemp("", "kosmokopy-ssh-")
	if err != nil {
		return nil, errors.Wrap(err, "unable to create control socket directory")
	}
	return &Manager{sockDir: dir, opened: make(map[string]bool)}, nil
}

func (m *Manager) socketPath(host string) string {
	sum := sha1.Sum([]byte(host))
	return filepath.Join(m.sockDir, fmt.Sprintf("%x.sock", sum[:8]))
}

// ConnectTimeoutFlag returns the -oConnectTimeout=N flag shared by every
// ssh/scp/rsync invocation this package builds.
func ConnectTimeoutFlag() string {
	return fmt.Sprintf("-oConnectTimeout=%d", connectTimeoutSeconds)
}

// Ensure opens the control master for host if one is not already running,
// blocking until the background master process has connected.
func (m *Manager) Ensure(ctx context.Context, host string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.opened[host] {
		return nil
	}

	sock := m.socketPath(host)
	args := []string{
		"-M", "-N", "-f",
		ConnectTimeoutFlag(),
		"-o", fmt.Sprintf("ControlPersist=%d", controlPersistSeconds),
		"-S", sock,
		host,
	}
	cmd := exec.CommandContext(ctx, "ssh", args...)
	var stderr, stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "unable to establish control master for %s: %s", host, stderr.String())
	}
	m.opened[host] = true
	return nil
}

// ControlArgs returns the ssh/scp/rsync options that direct a command at
// host's multiplexed control socket. Ensure must have been called for
// host first.
func (m *Manager) ControlArgs(host string) []string {
	sock := m.socketPath(host)
	return []string{
		"-o", "ControlMaster=auto",
		"-o", "ControlPath=" + sock,
		"-o", fmt.Sprintf("ControlPersist=%d", controlPersistSeconds),
	}
}

// SSHOption returns the equivalent control-socket configuration formatted
// as a single "ssh -o Key=Value ..." command line, for rsync's -e flag.
func (m *Manager) SSHOption(host string) string {
	sock := m.socketPath(host)
	return fmt.Sprintf("ssh %s -o ControlMaster=auto -o ControlPath=%s -o ControlPersist=%d",
		ConnectTimeoutFlag(), sock, controlPersistSeconds)
}

// Close tears down every control master this Manager opened and removes
// the socket directory. It is safe to call once, on every exit path
// (success, error, or cancellation) per spec.md §5.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for host := range m.opened {
		sock := m.socketPath(host)
		cmd := exec.Command("ssh", "-S", sock, "-O", "exit", host)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "unable to close control master for %s: %s", host, stderr.String())
		}
	}
	m.opened = make(map[string]bool)

	if err := os.RemoveAll(m.sockDir); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "unable to remove control socket directory")
	}
	return firstErr
}
