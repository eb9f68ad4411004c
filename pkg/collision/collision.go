// Package collision implements the decision procedure of spec.md §4.4:
// given an intended destination and a policy, decide whether to proceed
// (possibly under a renamed path), skip, or treat the destination as
// already identical.
package collision

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kosmokopy/kosmokopy/pkg/endpoint"
	"github.com/kosmokopy/kosmokopy/pkg/integrity"
	"github.com/kosmokopy/kosmokopy/pkg/kosmo"
)

// DecisionKind is the resolver's verdict for one planned file.
type DecisionKind int

const (
	Proceed DecisionKind = iota
	SkipDifferent
	AlreadyIdentical
)

// Decision is the resolver's output for one planned file.
type Decision struct {
	Kind    DecisionKind
	// FinalRelPath is the destination-relative path to actually write to.
	// Equal to the intended path unless Kind is Proceed after a Rename;
	// empty when Kind is SkipDifferent.
	FinalRelPath string
	// Overwrite is true iff the policy is Overwrite and the intended path
	// already existed. Transport workers always overwrite and never read
	// it; pkg/orchestrator records it in the transferred file's log entry.
	Overwrite bool
	// Renamed is true iff FinalRelPath differs from the intended path.
	Renamed bool
}

// Resolve implements §4.4's four-step decision procedure. known, when
// non-nil, is an in-memory snapshot of every path that currently exists
// under dest (SPEC_FULL.md §D's batch remote listing): step 1 answers
// existence from known instead of a live dest.Exists round-trip. Pass
// nil to always probe live, which is what a local destination does —
// the round-trip there is a syscall, not a network hop, so batching buys
// nothing.
func Resolve(ctx context.Context, dest, source endpoint.Endpoint, destRel, sourceRel string, policy kosmo.CollisionPolicy, known map[string]bool) (Decision, error) {
	var exists bool
	var err error
	if known != nil {
		exists = known[destRel]
	} else {
		exists, err = dest.Exists(ctx, destRel)
		if err != nil {
			return Decision{}, fmt.Errorf("probe destination: %w", err)
		}
	}
	if !exists {
		return Decision{Kind: Proceed, FinalRelPath: destRel}, nil
	}

	equal, err := integrity.Equal(ctx, source, dest, sourceRel, destRel)
	if err != nil {
		return Decision{}, fmt.Errorf("compare with destination: %w", err)
	}
	if equal {
		return Decision{Kind: AlreadyIdentical, FinalRelPath: destRel}, nil
	}

	switch policy {
	case kosmo.Skip:
		return Decision{Kind: SkipDifferent}, nil
	case kosmo.Overwrite:
		return Decision{Kind: Proceed, FinalRelPath: destRel, Overwrite: true}, nil
	case kosmo.Rename:
		final, err := firstFreeName(ctx, dest, destRel)
		if err != nil {
			return Decision{}, fmt.Errorf("find free name: %w", err)
		}
		return Decision{Kind: Proceed, FinalRelPath: final, Renamed: final != destRel}, nil
	default:
		return Decision{}, fmt.Errorf("unknown collision policy %q", policy)
	}
}

// firstFreeName returns the first "stem (N).ext" (N = 1, 2, …) that does
// not exist at dest, probing fresh for every candidate — spec.md §4.4:
// "there is no cache."
func firstFreeName(ctx context.Context, dest endpoint.Endpoint, intended string) (string, error) {
	dir := filepath.Dir(intended)
	base := filepath.Base(intended)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 1; ; n++ {
		candidateBase := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		candidateRel := candidateBase
		if dir != "." {
			candidateRel = filepath.Join(dir, candidateBase)
		}
		exists, err := dest.Exists(ctx, candidateRel)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidateRel, nil
		}
	}
}
