// Package endpoint implements the uniform contract of spec.md §4.3 over
// the two endpoint kinds: a local filesystem root, and a remote host+path
// reached over SSH. Per §9's design note, this is a tagged variant with
// operations dispatched on kind, not a virtual-table interface hierarchy.
package endpoint

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/kosmokopy/kosmokopy/pkg/sshexec"
)

// Kind distinguishes the two endpoint variants.
type Kind int

const (
	KindLocal Kind = iota
	KindRemote
)

// Endpoint is a location capable of holding files, per the GLOSSARY.
type Endpoint struct {
	kind Kind
	root string
	host string
	ssh  *sshexec.Manager
}

// Info is the subset of file metadata the engine needs.
type Info struct {
	Size int64
}

// Local constructs a Local(root) endpoint.
func Local(root string) Endpoint {
	return Endpoint{kind: KindLocal, root: root}
}

// Remote constructs a Remote(host, root) endpoint. mgr is shared across
// every remote endpoint touched by a single run so control masters and
// their sockets are opened at most once per host.
func Remote(host, root string, mgr *sshexec.Manager) Endpoint {
	return Endpoint{kind: KindRemote, host: host, root: root, ssh: mgr}
}

// IsLocal reports whether this endpoint is the local filesystem.
func (e Endpoint) IsLocal() bool { return e.kind == KindLocal }

// Host returns the SSH host name, or "" for a local endpoint.
func (e Endpoint) Host() string { return e.host }

// Root returns the endpoint's root path.
func (e Endpoint) Root() string { return e.root }

// AbsPath returns the absolute local filesystem path for rel under this
// endpoint's root. Only meaningful for a local endpoint.
func (e Endpoint) AbsPath(rel string) string {
	if rel == "" {
		return e.root
	}
	return filepath.Join(e.root, rel)
}

// remotePath returns the absolute remote path for rel under this
// endpoint's root, using forward-slash joining regardless of the local
// build platform since the remote side is assumed POSIX.
func (e Endpoint) remotePath(rel string) string {
	if rel == "" {
		return e.root
	}
	root := e.root
	if root != "" && root[len(root)-1] != '/' {
		root += "/"
	}
	return root + rel
}

// Exists probes whether rel exists at this endpoint.
func (e Endpoint) Exists(ctx context.Context, rel string) (bool, error) {
	if e.IsLocal() {
		return localExists(e.AbsPath(rel))
	}
	return remoteExists(ctx, e.ssh, e.host, e.remotePath(rel))
}

// EnsureDir creates rel (and any missing parents) as a directory,
// idempotently.
func (e Endpoint) EnsureDir(ctx context.Context, rel string) error {
	if e.IsLocal() {
		return localEnsureDir(e.AbsPath(rel))
	}
	return remoteEnsureDir(ctx, e.ssh, e.host, e.remotePath(rel))
}

// Delete removes the file at rel.
func (e Endpoint) Delete(ctx context.Context, rel string) error {
	if e.IsLocal() {
		return localDelete(e.AbsPath(rel))
	}
	return remoteDelete(ctx, e.ssh, e.host, e.remotePath(rel))
}

// ListNames lists every file under rel (recursively), as paths relative
// to rel, used to build the batch existence snapshot that backs remote
// conflict probing instead of one dest.Exists round-trip per planned
// file (SPEC_FULL.md §D).
func (e Endpoint) ListNames(ctx context.Context, rel string) ([]string, error) {
	if e.IsLocal() {
		return localListNames(e.AbsPath(rel))
	}
	return remoteListNames(ctx, e.ssh, e.host, e.remotePath(rel))
}

// SHA256 computes the SHA-256 digest of the file at rel, hex-encoded.
func (e Endpoint) SHA256(ctx context.Context, rel string) (string, error) {
	if e.IsLocal() {
		return localSHA256(ctx, e.AbsPath(rel))
	}
	return remoteSHA256(ctx, e.ssh, e.host, e.remotePath(rel))
}

// Stat returns metadata for the file at rel.
func (e Endpoint) Stat(ctx context.Context, rel string) (Info, error) {
	if e.IsLocal() {
		return localStat(e.AbsPath(rel))
	}
	return remoteStat(ctx, e.ssh, e.host, e.remotePath(rel))
}

// Open opens the file at rel for streaming reads. Only valid for a local
// endpoint; remote content never flows through the Go process directly —
// transport workers hand scp/rsync the raw path instead.
func (e Endpoint) Open(rel string) (io.ReadCloser, error) {
	if !e.IsLocal() {
		return nil, fmt.Errorf("endpoint: Open is only valid for local endpoints")
	}
	return localOpen(e.AbsPath(rel))
}

// SameDevice reports whether a and b are both local and their roots
// live on the same filesystem device, per §4.5's rename-optimization
// precondition.
func SameDevice(a, b Endpoint) bool {
	if !a.IsLocal() || !b.IsLocal() {
		return false
	}
	return sameDevice(a.root, b.root)
}
