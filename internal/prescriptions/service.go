package prescriptions

import (
	"context"

	"github.com/gdpranavl/SanjeevanAI/pkg/interfaces"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

// Service implements the prescription workflows
type Service struct {
	repo   interfaces.PrescriptionRepository
	logger *logger.Logger
}

// NewService creates a new prescription service
func NewService(repo interfaces.PrescriptionRepository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// AppendMedicationItem appends one medication item to the prescription
// for caseID. Catalog membership of the referenced medication is not
// validated here; the view join resolves names at read time.
func (s *Service) AppendMedicationItem(ctx context.Context, caseID string, item *types.MedicationItem) (*types.AppendResult, error) {
	if caseID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Case ID is required")
	}
	if item == nil || item.MedicationPlan.Main == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Medication ID is required")
	}

	if err := s.repo.AppendMedicationItem(ctx, caseID, item); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"case_id":       caseID,
		"medication_id": item.MedicationPlan.Main,
	}).Info("Medication item appended")

	return &types.AppendResult{
		Success: true,
		Message: "Medication added successfully",
	}, nil
}

// GetPrescriptionView returns the joined prescription view for caseID.
// Items whose catalog reference no longer resolves keep their place in
// the list under a placeholder name.
func (s *Service) GetPrescriptionView(ctx context.Context, caseID string) (*types.PrescriptionView, error) {
	if caseID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Case ID is required")
	}

	view, err := s.repo.ViewByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	view.Medications = resolveMedicationNames(view.Medications)
	return view, nil
}

// ListMedications returns the full medication catalog
func (s *Service) ListMedications(ctx context.Context) ([]types.MedicationOption, error) {
	return s.repo.ListMedications(ctx)
}

// resolveMedicationNames drops the empty entry an unwound empty item
// list produces and fills in the placeholder name for dangling catalog
// references
func resolveMedicationNames(meds []types.PrescribedMedication) []types.PrescribedMedication {
	resolved := make([]types.PrescribedMedication, 0, len(meds))
	for _, med := range meds {
		if med.MedicationID == "" && med.MedicationName == "" {
			continue
		}
		if med.MedicationName == "" {
			med.MedicationName = types.UnknownMedicationName
		}
		resolved = append(resolved, med)
	}
	return resolved
}
