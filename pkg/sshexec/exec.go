package sshexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// runCaptured invokes name with args, capturing stdout/stderr rather than
// inheriting the parent's (spec.md §9: subprocess discipline). Exit status
// is the primary signal but is never trusted alone by callers above this
// package — verification always follows.
func runCaptured(ctx context.Context, name string, args []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// RunRemote runs command on host over the multiplexed control socket and
// returns trimmed stdout. host must have been passed to Manager.Ensure.
func RunRemote(ctx context.Context, m *Manager, host, command string) (string, error) {
	args := []string{ConnectTimeoutFlag()}
	args = append(args, m.ControlArgs(host)...)
	args = append(args, host, command)

	stdout, stderr, err := runCaptured(ctx, "ssh", args)
	if err != nil {
		return "", errors.Wrapf(err, "remote command failed on %s: %s", host, strings.TrimSpace(stderr))
	}
	return strings.TrimSpace(stdout), nil
}

// SCPCopy invokes scp over the multiplexed control socket. upload=true
// copies localPath to host:remotePath; upload=false copies the reverse.
func SCPCopy(ctx context.Context, m *Manager, host, localPath, remotePath string, upload bool) error {
	args := []string{"-C", ConnectTimeoutFlag()}
	args = append(args, m.ControlArgs(host)...)

	remoteSpec := RemoteSCPTarget(host, remotePath)
	if upload {
		args = append(args, localPath, remoteSpec)
	} else {
		args = append(args, remoteSpec, localPath)
	}

	_, stderr, err := runCaptured(ctx, "scp", args)
	if err != nil {
		return errors.Wrapf(err, "scp failed: %s", strings.TrimSpace(stderr))
	}
	return nil
}

// LocalRsync invokes rsync -a --checksum src dst with no ssh transport,
// for the local-rsync worker (§4.5).
func LocalRsync(ctx context.Context, src, dst string) error {
	args := []string{"-a", "--checksum", src, dst}
	_, stderr, err := runCaptured(ctx, "rsync", args)
	if err != nil {
		return errors.Wrapf(err, "rsync failed: %s", strings.TrimSpace(stderr))
	}
	return nil
}

// RemoteRsync invokes rsync -az --checksum over the multiplexed control
// socket, for the remote-rsync worker (§4.5).
func RemoteRsync(ctx context.Context, m *Manager, host, localPath, remotePath string, upload bool) error {
	sshOpt := m.SSHOption(host)
	remoteSpec := RemoteSCPTarget(host, remotePath)

	var args []string
	if upload {
		args = []string{"-az", "--checksum", "-e", sshOpt, localPath, remoteSpec}
	} else {
		args = []string{"-az", "--checksum", "-e", sshOpt, remoteSpec, localPath}
	}

	_, stderr, err := runCaptured(ctx, "rsync", args)
	if err != nil {
		return errors.Wrapf(err, "rsync failed: %s", strings.TrimSpace(stderr))
	}
	return nil
}

// Probe issues a cheap remote round-trip used as a pre-flight
// connectivity check (SPEC_FULL.md §D) before planning proceeds against a
// remote endpoint, so an unreachable host surfaces as a PlanningError
// rather than a confusing per-file TransportError.
func Probe(ctx context.Context, m *Manager, host string) error {
	if err := m.Ensure(ctx, host); err != nil {
		return err
	}
	if _, err := RunRemote(ctx, m, host, "true"); err != nil {
		return fmt.Errorf("host %s unreachable: %w", host, err)
	}
	return nil
}
