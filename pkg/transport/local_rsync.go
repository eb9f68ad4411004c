package transport

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kosmokopy/kosmokopy/pkg/endpoint"
	"github.com/kosmokopy/kosmokopy/pkg/integrity"
	"github.com/kosmokopy/kosmokopy/pkg/sshexec"
)

// localRsyncTransfer runs rsync -a --checksum between two local paths. The
// same-device move optimization still applies before rsync is considered
// (§4.5): a rename is strictly cheaper and rsync would only reproduce it.
func localRsyncTransfer(ctx context.Context, opts Options) (Result, error) {
	if opts.Move && endpoint.SameDevice(opts.Source, opts.Dest) {
		src, dst := opts.Source.AbsPath(opts.SourceRel), opts.Dest.AbsPath(opts.DestRel)
		if err := os.Rename(src, dst); err == nil {
			return Result{SourceHandled: true}, nil
		}
	}

	dst := opts.Dest.AbsPath(opts.DestRel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Result{}, wrapTransport(opts.SourceRel, err)
	}

	if err := sshexec.LocalRsync(ctx, opts.Source.AbsPath(opts.SourceRel), dst); err != nil {
		cleanupPartial(ctx, opts.Dest, opts.DestRel)
		return Result{}, wrapTransport(opts.SourceRel, err)
	}

	// Defense in depth: rsync's own --checksum already verifies, but the
	// engine's safety interlock never trusts a subprocess exit code alone.
	equal, err := integrity.Equal(ctx, opts.Source, opts.Dest, opts.SourceRel, opts.DestRel)
	if err != nil {
		cleanupPartial(ctx, opts.Dest, opts.DestRel)
		return Result{}, wrapTransport(opts.SourceRel, err)
	}
	if !equal {
		cleanupPartial(ctx, opts.Dest, opts.DestRel)
		return Result{}, wrapVerification(opts.SourceRel, "byte comparison mismatch after rsync")
	}
	return Result{}, nil
}
