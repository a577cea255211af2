package interfaces

import (
	"context"

	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

// DoctorRepository defines storage operations for doctor accounts
type DoctorRepository interface {
	Create(ctx context.Context, doctor *types.Doctor) error
	GetByEmail(ctx context.Context, email string) (*types.Doctor, error)
	GetByID(ctx context.Context, doctorID string) (*types.Doctor, error)
}

// IAMService defines doctor account and authentication workflows
type IAMService interface {
	RegisterDoctor(ctx context.Context, req *types.DoctorRegistrationRequest) (*types.Doctor, error)
	AuthenticateDoctor(ctx context.Context, credentials *types.Credentials) (*types.AuthResult, error)
}

// PasswordManager defines password hashing operations
type PasswordManager interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}
