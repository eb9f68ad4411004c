// Package transport implements the four concrete transfer strategies of
// spec.md §4.5 plus the remote→remote relay, sharing one post-condition:
// on success the destination exists with verified-equal bytes; on
// failure no partial destination file is left behind.
package transport

import (
	"context"

	"github.com/kosmokopy/kosmokopy/pkg/endpoint"
	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
	"github.com/kosmokopy/kosmokopy/pkg/sshexec"
)

// Options describes one concrete (source file, destination file) transfer.
type Options struct {
	SSH        *sshexec.Manager
	StagingDir string
	Source     endpoint.Endpoint
	Dest       endpoint.Endpoint
	SourceRel  string
	DestRel    string
	Method     kosmo.Method
	Move       bool
}

// Result carries side effects the orchestrator needs to know about beyond
// plain success/failure.
type Result struct {
	// SourceHandled is true when the worker already deleted (or attempted
	// to delete) the source file itself, so the orchestrator's own
	// post-move deletion step (§4.6 step 4) must be skipped. True for the
	// same-device rename optimization and for the relay worker.
	SourceHandled bool
	// Warning is a non-fatal problem to surface in the run's errors list
	// without turning the outcome into a Failed one — a PostMoveWarning.
	Warning error
}

// Transfer selects the correct strategy for the (source, dest) pair and
// runs it.
func Transfer(ctx context.Context, opts Options) (Result, error) {
	switch {
	case opts.Source.IsLocal() && opts.Dest.IsLocal():
		return localTransfer(ctx, opts)
	case opts.Source.IsLocal() != opts.Dest.IsLocal():
		return remoteTransfer(ctx, opts)
	default:
		return relayTransfer(ctx, opts)
	}
}

func wrapTransport(path string, err error) error {
	return &kosmo.TransportError{Path: path, Cause: err}
}

func wrapVerification(path, detail string) error {
	return &kosmo.VerificationError{Path: path, Detail: detail}
}

func cleanupPartial(ctx context.Context, dest endpoint.Endpoint, rel string) {
	_ = dest.Delete(ctx, rel)
}

func remoteHostAndAbsPaths(opts Options) (host, localAbs, remoteAbs string, upload bool) {
	if opts.Dest.IsLocal() {
		// download: source is remote
		return opts.Source.Host(), opts.Dest.AbsPath(opts.DestRel), remotePathOf(opts.Source, opts.SourceRel), false
	}
	return opts.Dest.Host(), opts.Source.AbsPath(opts.SourceRel), remotePathOf(opts.Dest, opts.DestRel), true
}

func remotePathOf(e endpoint.Endpoint, rel string) string {
	root := e.Root()
	if rel == "" {
		return root
	}
	if root != "" && root[len(root)-1] != '/' {
		root += "/"
	}
	return root + rel
}
