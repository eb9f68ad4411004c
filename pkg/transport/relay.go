package transport

import (
	"context"

	"github.com/google/uuid"

	"github.com/kosmokopy/kosmokopy/pkg/endpoint"
	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
)

// relayTransfer moves one file between two remote endpoints by way
// of a local staging file (§4.5): download source→staging and verify,
// upload staging→destination and verify, delete staging. Unlike the other
// three workers, relay owns source deletion on a successful move itself
// (§4.6 step 4 excludes remote relays from the orchestrator's own
// post-transfer deletion), since only the relay worker knows both legs
// completed cleanly.
func relayTransfer(ctx context.Context, opts Options) (Result, error) {
	staging := endpoint.Local(opts.StagingDir)
	stagingRel := uuid.New().String() + "-" + baseName(opts.SourceRel)

	downOpts := opts
	downOpts.Dest = staging
	downOpts.DestRel = stagingRel
	downOpts.Move = false
	if _, err := remoteTransfer(ctx, downOpts); err != nil {
		return Result{}, wrapTransport(opts.SourceRel, err)
	}

	upOpts := opts
	upOpts.Source = staging
	upOpts.SourceRel = stagingRel
	upOpts.Move = false
	if _, err := remoteTransfer(ctx, upOpts); err != nil {
		cleanupPartial(ctx, staging, stagingRel)
		return Result{}, wrapTransport(opts.SourceRel, err)
	}

	cleanupPartial(ctx, staging, stagingRel)

	result := Result{SourceHandled: true}
	if opts.Move {
		if err := opts.Source.Delete(ctx, opts.SourceRel); err != nil {
			result.Warning = &kosmo.PostMoveWarning{Path: opts.SourceRel, Cause: err}
		}
	}
	return result, nil
}

func baseName(rel string) string {
	i := lastSlash(rel)
	if i < 0 {
		return rel
	}
	return rel[i+1:]
}
