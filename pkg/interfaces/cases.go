package interfaces

import (
	"context"

	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

// CaseRepository defines storage operations for case documents
type CaseRepository interface {
	// ApplyMutation applies a single atomic mutation (status change,
	// field edits, audit-note appends, version bump) to the case
	// identified by caseID.
	ApplyMutation(ctx context.Context, caseID string, mutation *types.CaseMutation) error

	// ViewByID returns the flat case+patient view for one case
	ViewByID(ctx context.Context, caseID string) (*types.CaseView, error)

	// ViewsByStatus returns flat case+patient views whose stored status
	// normalizes to the given canonical status, newest first.
	ViewsByStatus(ctx context.Context, status types.ApprovalStatus) ([]types.CaseView, error)
}

// CaseService defines the case review workflows
type CaseService interface {
	// SetApprovalStatus records an approve/reject decision with optional
	// edits and returns the resulting view.
	SetApprovalStatus(ctx context.Context, req *types.ApprovalRequest) (*types.CaseView, error)

	// UpdateCase applies doctor edits without changing the approval
	// status and returns the resulting view.
	UpdateCase(ctx context.Context, req *types.CaseUpdateRequest) (*types.CaseView, error)

	// GetCasesView lists case+patient views filtered by canonical status
	GetCasesView(ctx context.Context, status types.ApprovalStatus) ([]types.CaseView, error)
}
