package cases

import (
	"context"
	"time"

	"github.com/gdpranavl/SanjeevanAI/pkg/interfaces"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

const (
	approvedNoteContent = "Case approved by doctor"
	rejectedNoteContent = "Case rejected by doctor"
)

// Service implements the case review workflows
type Service struct {
	repo   interfaces.CaseRepository
	logger *logger.Logger
}

// NewService creates a new case service
func NewService(repo interfaces.CaseRepository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// SetApprovalStatus records an approve/reject decision for a case with
// optional edits, appends the audit entries, and returns the updated
// case+patient view. The write is a single atomic update; the returned
// view is re-read strictly after the write completes.
func (s *Service) SetApprovalStatus(ctx context.Context, req *types.ApprovalRequest) (*types.CaseView, error) {
	if req.CaseID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Case ID is required")
	}
	if req.Status != types.StatusApproved && req.Status != types.StatusRejected {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Status must be Approved or Rejected")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	actor := actorFrom(ctx)

	notes := make([]types.CaseNote, 0, 2)
	if req.Edits.AdditionalNotes != "" {
		notes = append(notes, types.CaseNote{
			Timestamp: now,
			Type:      types.NoteTypeApprovalNotes,
			Content:   req.Edits.AdditionalNotes,
			AddedBy:   actor,
		})
	}
	content := approvedNoteContent
	if req.Status == types.StatusRejected {
		content = rejectedNoteContent
	}
	notes = append(notes, types.CaseNote{
		Timestamp: now,
		Type:      types.NoteTypeApproval,
		Content:   content,
		AddedBy:   actor,
	})

	mutation := &types.CaseMutation{
		Status:        req.Status,
		StatusChanged: true,
		Edits:         req.Edits,
		Notes:         notes,
		Version:       req.Version,
	}

	if err := s.repo.ApplyMutation(ctx, req.CaseID, mutation); err != nil {
		return nil, err
	}

	s.logger.Audit(actor, "case_decision", req.CaseID, true, map[string]interface{}{
		"status": string(req.Status),
	})

	return s.fetchView(ctx, req.CaseID)
}

// UpdateCase applies doctor edits to a case without changing its
// approval status and returns the updated view
func (s *Service) UpdateCase(ctx context.Context, req *types.CaseUpdateRequest) (*types.CaseView, error) {
	if req.CaseID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Case ID is required")
	}
	if req.Edits.Empty() {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "No updates provided")
	}

	actor := actorFrom(ctx)

	var notes []types.CaseNote
	if req.Edits.AdditionalNotes != "" {
		notes = append(notes, types.CaseNote{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Type:      types.NoteTypeDoctorNotes,
			Content:   req.Edits.AdditionalNotes,
			AddedBy:   actor,
		})
	}

	mutation := &types.CaseMutation{
		Edits:   req.Edits,
		Notes:   notes,
		Version: req.Version,
	}

	if err := s.repo.ApplyMutation(ctx, req.CaseID, mutation); err != nil {
		return nil, err
	}

	s.logger.Audit(actor, "case_update", req.CaseID, true, nil)

	return s.fetchView(ctx, req.CaseID)
}

// GetCasesView lists case+patient views filtered by canonical status.
// Every returned view carries the normalized status; a stored encoding
// that does not normalize to the requested status never passes.
func (s *Service) GetCasesView(ctx context.Context, status types.ApprovalStatus) ([]types.CaseView, error) {
	if !status.Valid() {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Status must be Pending, Approved or Rejected")
	}

	views, err := s.repo.ViewsByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	filtered := make([]types.CaseView, 0, len(views))
	for _, v := range views {
		v.ApprovalStatus = types.NormalizeApprovalStatus(v.RawStatus)
		if v.ApprovalStatus != status {
			continue
		}
		filtered = append(filtered, v)
	}

	return filtered, nil
}

func (s *Service) fetchView(ctx context.Context, caseID string) (*types.CaseView, error) {
	view, err := s.repo.ViewByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	view.ApprovalStatus = types.NormalizeApprovalStatus(view.RawStatus)
	return view, nil
}

// actorFrom resolves the acting doctor from the request context
func actorFrom(ctx context.Context) string {
	if userID, ok := ctx.Value("user_id").(string); ok && userID != "" {
		return userID
	}
	return "doctor"
}
