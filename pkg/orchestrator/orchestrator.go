// Package orchestrator implements the top-level sequential loop of
// spec.md §4.6: it walks a plan, invokes the collision resolver,
// dispatches to the transport package, records outcomes, and performs
// post-transfer source deletion for moves under the safety interlock
// ("no source is destroyed without a verified destination").
package orchestrator

import (
	"context"
	"os"

	"github.com/google/uuid"

	"github.com/kosmokopy/kosmokopy/pkg/collision"
	"github.com/kosmokopy/kosmokopy/pkg/endpoint"
	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
	"github.com/kosmokopy/kosmokopy/pkg/logging"
	"github.com/kosmokopy/kosmokopy/pkg/plan"
	"github.com/kosmokopy/kosmokopy/pkg/sshexec"
	"github.com/kosmokopy/kosmokopy/pkg/transport"
)

// Runner executes one TransferRequest to completion.
type Runner struct {
	Logger logging.Logger

	// OnFile, if set, is called once per planned file after it has been
	// resolved (transferred, skipped, or failed), for driving an
	// interactive progress indicator. It never affects the Summary.
	OnFile func()

	// OnPlanned, if set, is called once with the number of files the plan
	// selected, before the first OnFile call — so a progress indicator
	// can size itself against the plan instead of the request's raw
	// (and, for a directory walk, unpopulated) source-file count.
	OnPlanned func(total int)
}

// New constructs a Runner. A nil logger falls back to logging.NullLogger.
func New(logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Runner{Logger: logger}
}

// Run executes req to completion or cancellation. It always returns a
// populated Summary; the returned error is non-nil only for the
// abort-the-run case (planning or connectivity failure), matching §7's
// propagation policy: "planning errors bubble to the top and abort; all
// per-file errors are captured and the loop continues."
func (r *Runner) Run(ctx context.Context, req *kosmo.TransferRequest) (*kosmo.Summary, error) {
	summary := &kosmo.Summary{Status: kosmo.StatusFinished}

	runID := uuid.New().String()
	r = &Runner{Logger: r.Logger.WithFields(logging.Fields{"run_id": runID}), OnFile: r.OnFile, OnPlanned: r.OnPlanned}

	mgr, err := sshManagerFor(req)
	if err != nil {
		return abort(summary, &kosmo.PlanningError{Cause: err})
	}
	if mgr != nil {
		defer mgr.Close()
	}

	if err := probeHosts(ctx, mgr, req); err != nil {
		return abort(summary, &kosmo.PlanningError{Cause: err})
	}

	stagingDir, cleanup, err := stagingDirFor(req)
	if err != nil {
		return abort(summary, &kosmo.PlanningError{Cause: err})
	}
	if cleanup != nil {
		defer cleanup()
	}

	source := resolveSourceEndpoint(req, mgr)
	dest := resolveDestEndpoint(req, mgr)

	p, err := plan.New(req).Plan(ctx, source, req.SourceFiles, mgr)
	if err != nil {
		return abort(summary, &kosmo.PlanningError{Cause: err})
	}
	summary.ExcludedFiles = p.ExcludedFileCount()
	summary.ExcludedDirs = p.ExcludedDirCount()
	for _, ex := range p.Excluded {
		r.Logger.Debug(ctx, "excluded", logging.Fields{"path": ex.Path, "reason": string(ex.Reason), "pattern": ex.Pattern})
	}
	if r.OnPlanned != nil {
		r.OnPlanned(len(p.Files))
	}

	known, err := destSnapshot(ctx, dest)
	if err != nil {
		return abort(summary, &kosmo.PlanningError{Cause: err})
	}

	written := make(map[string]bool)

	for _, pf := range p.Files {
		select {
		case <-ctx.Done():
			summary.Status = kosmo.StatusCancelled
			return summary, nil
		default:
		}

		r.processFile(ctx, req, source, dest, mgr, stagingDir, pf, written, known, summary)
		if r.OnFile != nil {
			r.OnFile()
		}
	}

	return summary, nil
}

func abort(summary *kosmo.Summary, err error) (*kosmo.Summary, error) {
	summary.Status = kosmo.StatusError
	summary.Warnings = append(summary.Warnings, err.Error())
	return summary, err
}

func (r *Runner) processFile(ctx context.Context, req *kosmo.TransferRequest, source, dest endpoint.Endpoint, mgr *sshexec.Manager, stagingDir string, pf kosmo.PlannedFile, written map[string]bool, known map[string]bool, summary *kosmo.Summary) {
	sourceRel, destRel := pf.SourcePath, pf.DestRelPath

	if err := dest.EnsureDir(ctx, dirOf(destRel)); err != nil {
		r.fail(ctx, summary, pf.SourcePath, &kosmo.TransportError{Path: pf.SourcePath, Cause: err})
		return
	}

	decision, err := collision.Resolve(ctx, dest, source, destRel, sourceRel, req.Policy, known)
	if err != nil {
		r.fail(ctx, summary, pf.SourcePath, &kosmo.ResolutionError{Path: pf.SourcePath, Cause: err})
		return
	}

	switch decision.Kind {
	case collision.SkipDifferent:
		reason := kosmo.DifferentVersion
		if written[destRel] {
			reason = kosmo.AlreadyExists
		}
		summary.Skipped = append(summary.Skipped, kosmo.Outcome{Kind: kosmo.OutcomeSkipped, Path: pf.SourcePath, SkipReason: reason})
		r.Logger.Debug(ctx, "skipped", logging.Fields{"path": pf.SourcePath, "reason": string(reason)})

	case collision.AlreadyIdentical:
		r.resolveIdentical(ctx, req, source, sourceRel, pf.SourcePath, summary)

	case collision.Proceed:
		r.transferFile(ctx, req, source, dest, mgr, stagingDir, pf, decision, written, known, summary)
	}
}

func (r *Runner) resolveIdentical(ctx context.Context, req *kosmo.TransferRequest, source endpoint.Endpoint, sourceRel, path string, summary *kosmo.Summary) {
	kind := kosmo.OutcomeSkipped
	if req.Op == kosmo.Move {
		kind = kosmo.OutcomeMoved
		if delErr := source.Delete(ctx, sourceRel); delErr != nil {
			summary.Warnings = append(summary.Warnings, (&kosmo.PostMoveWarning{Path: sourceRel, Cause: delErr}).Error())
		}
	}
	summary.Skipped = append(summary.Skipped, kosmo.Outcome{Kind: kind, Path: path, SkipReason: kosmo.Identical})
	r.Logger.Debug(ctx, "already identical", logging.Fields{"path": path, "move": req.Op == kosmo.Move})
}

func (r *Runner) transferFile(ctx context.Context, req *kosmo.TransferRequest, source, dest endpoint.Endpoint, mgr *sshexec.Manager, stagingDir string, pf kosmo.PlannedFile, decision collision.Decision, written map[string]bool, known map[string]bool, summary *kosmo.Summary) {
	result, err := transport.Transfer(ctx, transport.Options{
		SSH:        mgr,
		StagingDir: stagingDir,
		Source:     source,
		Dest:       dest,
		SourceRel:  pf.SourcePath,
		DestRel:    decision.FinalRelPath,
		Method:     req.Method,
		Move:       req.Op == kosmo.Move,
	})
	if err != nil {
		r.fail(ctx, summary, pf.SourcePath, err)
		return
	}

	written[decision.FinalRelPath] = true
	if known != nil {
		known[decision.FinalRelPath] = true
	}
	summary.Copied++

	if req.Op == kosmo.Move && !result.SourceHandled {
		if delErr := source.Delete(ctx, pf.SourcePath); delErr != nil {
			summary.Warnings = append(summary.Warnings, (&kosmo.PostMoveWarning{Path: pf.SourcePath, Cause: delErr}).Error())
		}
	}
	if result.Warning != nil {
		summary.Warnings = append(summary.Warnings, result.Warning.Error())
	}

	fields := logging.Fields{"path": pf.SourcePath, "dest": decision.FinalRelPath}
	if decision.Renamed {
		fields["renamed_to"] = decision.FinalRelPath
	}
	if decision.Overwrite {
		fields["overwrote_existing"] = true
	}
	r.Logger.Info(ctx, "transferred", fields)
}

func (r *Runner) fail(ctx context.Context, summary *kosmo.Summary, path string, err error) {
	summary.Failed = append(summary.Failed, kosmo.Outcome{Kind: kosmo.OutcomeFailed, Path: path, Err: err})
	r.Logger.Error(ctx, "transfer failed", err, logging.Fields{"path": path})
}

func sshManagerFor(req *kosmo.TransferRequest) (*sshexec.Manager, error) {
	if !req.Source.IsRemote() && !req.Destination.IsRemote() {
		return nil, nil
	}
	return sshexec.NewManager()
}

func probeHosts(ctx context.Context, mgr *sshexec.Manager, req *kosmo.TransferRequest) error {
	hosts := map[string]bool{}
	if req.Source.IsRemote() {
		hosts[req.Source.Host] = true
	}
	if req.Destination.IsRemote() {
		hosts[req.Destination.Host] = true
	}
	for host := range hosts {
		if err := sshexec.Probe(ctx, mgr, host); err != nil {
			return err
		}
	}
	return nil
}

func stagingDirFor(req *kosmo.TransferRequest) (string, func(), error) {
	if !req.Source.IsRemote() || !req.Destination.IsRemote() {
		return "", nil, nil
	}
	dir, err := os.MkdirTemp("", "kosmokopy-relay-")
	if err != nil {
		return "", nil, err
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

// resolveSourceEndpoint builds the source endpoint. When the request names
// an explicit file list, the planner stores each PlannedFile.SourcePath as
// an absolute path rather than one relative to Source.Path (matching
// original_source's SourceSelection::Files, which never rewrites the
// user's chosen paths), so the endpoint's root is left empty: joining an
// empty root with an already-absolute rel yields that path unchanged for
// both the local and remote dispatch paths.
func resolveSourceEndpoint(req *kosmo.TransferRequest, mgr *sshexec.Manager) endpoint.Endpoint {
	root := req.Source.Path
	if req.HasExplicitFiles() {
		root = ""
	}
	if req.Source.IsRemote() {
		return endpoint.Remote(req.Source.Host, root, mgr)
	}
	return endpoint.Local(root)
}

func resolveDestEndpoint(req *kosmo.TransferRequest, mgr *sshexec.Manager) endpoint.Endpoint {
	if req.Destination.IsRemote() {
		return endpoint.Remote(req.Destination.Host, req.Destination.Path, mgr)
	}
	return endpoint.Local(req.Destination.Path)
}

// destSnapshot builds the batch existence set that backs remote conflict
// probing (SPEC_FULL.md §D): one ListNames round-trip for the whole run
// instead of one dest.Exists round-trip per planned file. It returns nil
// for a local destination, which tells collision.Resolve to keep probing
// live — a local stat is cheap enough that batching buys nothing and
// only risks staleness against a filesystem being touched by other
// processes during the run.
func destSnapshot(ctx context.Context, dest endpoint.Endpoint) (map[string]bool, error) {
	if dest.IsLocal() {
		return nil, nil
	}
	names, err := dest.ListNames(ctx, "")
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}
	return known, nil
}

func dirOf(rel string) string {
	for i := len(rel) - 1; i >= 0; i-- {
		if rel[i] == '/' {
			return rel[:i]
		}
	}
	return ""
}
