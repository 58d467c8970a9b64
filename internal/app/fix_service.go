package app

import (
	"context"
	"fmt"

	"github.com/simplibiz/sbdoctor/internal/ports/primary"
	"github.com/simplibiz/sbdoctor/internal/ports/secondary"
)

// FixServiceImpl implements the FixService interface.
type FixServiceImpl struct {
	backend secondary.Backend
}

var _ primary.FixService = (*FixServiceImpl)(nil)

// NewFixService creates a new FixService with the injected backend.
func NewFixService(backend secondary.Backend) *FixServiceImpl {
	return &FixServiceImpl{backend: backend}
}

// Apply remediates issues in discovery order. A failed remedy is recorded on
// its result and the pass continues so that independent fixes are attempted.
// Apply does not re-probe; the operator re-runs check to verify.
func (s *FixServiceImpl) Apply(ctx context.Context, issues []primary.Issue) []primary.FixResult {
	results := make([]primary.FixResult, 0, len(issues))

	for _, issue := range issues {
		result := primary.FixResult{Issue: issue}

		switch issue.Remedy.Type {
		case primary.RemedySQL:
			if _, err := s.backend.ExecSQL(ctx, issue.Remedy.SQL); err != nil {
				result.Err = err
			}
		case primary.RemedyAction:
			result.Err = s.applyAction(ctx, issue.Remedy.Action)
		default:
			result.Skipped = true
		}

		results = append(results, result)
	}

	return results
}

func (s *FixServiceImpl) applyAction(ctx context.Context, action string) error {
	switch action {
	case primary.ActionCreateBucket:
		return s.backend.CreateBucket(ctx, productImagesBucket, true)
	default:
		return fmt.Errorf("unknown remedy action %q", action)
	}
}
