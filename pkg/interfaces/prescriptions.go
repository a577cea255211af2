package interfaces

import (
	"context"

	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

// PrescriptionRepository defines storage operations for prescriptions
// and the medication catalog
type PrescriptionRepository interface {
	// AppendMedicationItem atomically appends one item to the
	// prescription matched by caseID. It never creates a prescription.
	AppendMedicationItem(ctx context.Context, caseID string, item *types.MedicationItem) error

	// ViewByCaseID returns the joined prescription view for one case
	ViewByCaseID(ctx context.Context, caseID string) (*types.PrescriptionView, error)

	// ListMedications returns the full medication catalog
	ListMedications(ctx context.Context) ([]types.MedicationOption, error)
}

// PrescriptionService defines the prescription workflows
type PrescriptionService interface {
	AppendMedicationItem(ctx context.Context, caseID string, item *types.MedicationItem) (*types.AppendResult, error)
	GetPrescriptionView(ctx context.Context, caseID string) (*types.PrescriptionView, error)
	ListMedications(ctx context.Context) ([]types.MedicationOption, error)
}
