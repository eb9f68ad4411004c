package endpoint

import (
	"context"
	"strconv"
	"strings"

	"github.com/kosmokopy/kosmokopy/pkg/sshexec"
)

func remoteExists(ctx context.Context, m *sshexec.Manager, host, path string) (bool, error) {
	_, err := sshexec.RunRemote(ctx, m, host, sshexec.RemoteTestExists(path))
	if err != nil {
		// "test -e" exits non-zero when the path is absent; that is not
		// itself a transport failure, so treat any failure here as
		// "does not exist" rather than surfacing it as an error. A real
		// connectivity failure will already have been caught by the
		// pre-flight probe (SPEC_FULL.md §D).
		return false, nil
	}
	return true, nil
}

func remoteEnsureDir(ctx context.Context, m *sshexec.Manager, host, path string) error {
	_, err := sshexec.RunRemote(ctx, m, host, sshexec.RemoteMkdirP(path))
	return err
}

func remoteDelete(ctx context.Context, m *sshexec.Manager, host, path string) error {
	_, err := sshexec.RunRemote(ctx, m, host, sshexec.RemoteRemove(path))
	return err
}

// remoteListNames runs a single `find dir -type f` and rewrites every
// result to be relative to dir, so the caller can hold the whole
// destination tree's contents as one lookup set instead of probing each
// planned file's existence with its own round-trip (SPEC_FULL.md §D).
func remoteListNames(ctx context.Context, m *sshexec.Manager, host, dir string) ([]string, error) {
	out, err := sshexec.RunRemote(ctx, m, host, sshexec.RemoteFindFiles(dir))
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	prefix := dir
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	lines := strings.Split(out, "\n")
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, strings.TrimPrefix(line, prefix))
	}
	return names, nil
}

func remoteSHA256(ctx context.Context, m *sshexec.Manager, host, path string) (string, error) {
	out, err := sshexec.RunRemote(ctx, m, host, sshexec.RemoteSHA256(path))
	if err != nil {
		return "", err
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

func remoteStat(ctx context.Context, m *sshexec.Manager, host, path string) (Info, error) {
	// -c is GNU stat; -f%z is BSD/macOS stat. Try GNU first, fall back.
	q := sshexec.ShellQuote(path)
	cmd := "stat -c%s " + q + " 2>/dev/null || stat -f%z " + q
	out, err := sshexec.RunRemote(ctx, m, host, cmd)
	if err != nil {
		return Info{}, err
	}
	size, convErr := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if convErr != nil {
		return Info{}, convErr
	}
	return Info{Size: size}, nil
}
