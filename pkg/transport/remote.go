package transport

import (
	"context"

	"github.com/kosmokopy/kosmokopy/pkg/integrity"
	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
	"github.com/kosmokopy/kosmokopy/pkg/sshexec"
)

// remoteTransfer moves one file between the local filesystem and a remote
// host, in whichever direction the pair implies, then verifies by hash
// (§4.5's remote-scp and remote-rsync workers). No move optimization is
// possible across a network boundary; the source is left for the
// orchestrator to delete on success.
func remoteTransfer(ctx context.Context, opts Options) (Result, error) {
	host, localAbs, remoteAbs, upload := remoteHostAndAbsPaths(opts)

	if err := opts.Dest.EnsureDir(ctx, parentRel(opts.DestRel)); err != nil {
		return Result{}, wrapTransport(opts.SourceRel, err)
	}

	var err error
	if opts.Method == kosmo.Rsync {
		err = sshexec.RemoteRsync(ctx, opts.SSH, host, localAbs, remoteAbs, upload)
	} else {
		err = sshexec.SCPCopy(ctx, opts.SSH, host, localAbs, remoteAbs, upload)
	}
	if err != nil {
		cleanupPartial(ctx, opts.Dest, opts.DestRel)
		return Result{}, wrapTransport(opts.SourceRel, err)
	}

	equal, err := integrity.Equal(ctx, opts.Source, opts.Dest, opts.SourceRel, opts.DestRel)
	if err != nil {
		cleanupPartial(ctx, opts.Dest, opts.DestRel)
		return Result{}, wrapTransport(opts.SourceRel, err)
	}
	if !equal {
		cleanupPartial(ctx, opts.Dest, opts.DestRel)
		return Result{}, wrapVerification(opts.SourceRel, "hash mismatch after transfer")
	}
	return Result{}, nil
}

func parentRel(rel string) string {
	i := lastSlash(rel)
	if i < 0 {
		return ""
	}
	return rel[:i]
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
