package sshexec

import (
	"fmt"
	"strings"
)

// ShellQuote single-quotes s for safe interpolation into a remote command
// string, escaping embedded single quotes the POSIX way. Grounded on
// original_source/src/main.rs's shell_quote.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// RemoteTestExists builds the remote command that probes existence.
func RemoteTestExists(path string) string {
	return "test -e " + ShellQuote(path)
}

// RemoteMkdirP builds the remote command that creates a directory tree.
func RemoteMkdirP(path string) string {
	return "mkdir -p " + ShellQuote(path)
}

// RemoteRemove builds the remote command that deletes a single file.
func RemoteRemove(path string) string {
	return "rm -f " + ShellQuote(path)
}

// RemoteFindFiles builds the remote command that lists every file under
// root, one path per line.
func RemoteFindFiles(root string) string {
	return "find " + ShellQuote(root) + " -type f"
}

// RemoteSHA256 builds the remote command that hashes a file, preferring
// sha256sum and falling back to shasum -a 256 when the former is absent,
// per spec.md §9's hashing design note.
func RemoteSHA256(path string) string {
	q := ShellQuote(path)
	return fmt.Sprintf("sha256sum %s 2>/dev/null || shasum -a 256 %s", q, q)
}

// escapeSCPPath backslash-escapes characters that would otherwise be
// re-interpreted by the remote shell scp invokes to receive the file,
// since an scp destination string is not passed through a Go-side shell
// but is still parsed by one on the remote end.
func escapeSCPPath(path string) string {
	replacer := strings.NewReplacer(
		` `, `\ `,
		`'`, `\'`,
		`"`, `\"`,
		`$`, `\$`,
		"`", "\\`",
	)
	return replacer.Replace(path)
}

// RemoteSCPTarget builds the "host:path" argument for an scp invocation.
func RemoteSCPTarget(host, path string) string {
	return fmt.Sprintf("%s:%s", host, escapeSCPPath(path))
}
