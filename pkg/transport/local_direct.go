package transport

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/kosmokopy/kosmokopy/pkg/endpoint"
	"github.com/kosmokopy/kosmokopy/pkg/integrity"
	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
)

func localTransfer(ctx context.Context, opts Options) (Result, error) {
	if opts.Method == kosmo.Rsync {
		return localRsyncTransfer(ctx, opts)
	}

	if opts.Move && endpoint.SameDevice(opts.Source, opts.Dest) {
		src, dst := opts.Source.AbsPath(opts.SourceRel), opts.Dest.AbsPath(opts.DestRel)
		if err := os.Rename(src, dst); err == nil {
			return Result{SourceHandled: true}, nil
		}
		// Cross-directory rename can still fail (e.g. dst dir vanished
		// mid-run); fall through to stream-and-verify like any other pair.
	}

	return streamAndVerify(ctx, opts)
}

// streamAndVerify is the fallback path used whenever the rename
// optimization doesn't apply: copy the bytes, then verify per §4.4's local
// rule before reporting success. It never touches the source; deleting it
// on a successful move is the orchestrator's job (§4.6 step 4).
func streamAndVerify(ctx context.Context, opts Options) (Result, error) {
	if err := streamCopy(opts.Source.AbsPath(opts.SourceRel), opts.Dest.AbsPath(opts.DestRel)); err != nil {
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
		return Result{}, wrapVerification(opts.SourceRel, "byte comparison mismatch after copy")
	}
	return Result{}, nil
}

// streamCopy copies src to dst, creating dst's parent directory and
// truncating any pre-existing dst.
func streamCopy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
