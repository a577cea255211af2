package iam

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gdpranavl/SanjeevanAI/pkg/config"
	"github.com/gdpranavl/SanjeevanAI/pkg/interfaces"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

// Service implements doctor registration and authentication
type Service struct {
	config          *config.JWTConfig
	logger          *logger.Logger
	doctorRepo      interfaces.DoctorRepository
	passwordManager interfaces.PasswordManager
}

// NewService creates a new IAM service instance
func NewService(cfg *config.JWTConfig, log *logger.Logger, doctorRepo interfaces.DoctorRepository, passwordManager interfaces.PasswordManager) *Service {
	return &Service{
		config:          cfg,
		logger:          log,
		doctorRepo:      doctorRepo,
		passwordManager: passwordManager,
	}
}

// RegisterDoctor registers a new doctor account
func (s *Service) RegisterDoctor(ctx context.Context, req *types.DoctorRegistrationRequest) (*types.Doctor, error) {
	if err := validateRegistrationRequest(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check if the email is already registered. Only not-found means the
	// email is free; any other failure must not read as available.
	existing, err := s.doctorRepo.GetByEmail(ctx, email)
	if err != nil && !types.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, types.NewValidationError("EMAIL_EXISTS", "Doctor with this email already exists")
	}

	hash, err := s.passwordManager.Hash(req.Password)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to hash password", err)
	}

	doctor := &types.Doctor{
		DoctorID:       uuid.New().String(),
		DoctorName:     req.DoctorName,
		Email:          email,
		ContactNo:      req.ContactNo,
		Specialization: req.Specialization,
		PasswordHash:   hash,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"doctor_id": doctor.DoctorID,
		"email":     doctor.Email,
	}).Info("Doctor registered")

	s.logger.Audit(doctor.DoctorID, "register", "doctor", true, nil)

	return doctor, nil
}

// AuthenticateDoctor verifies credentials and issues an access token.
// Unknown email and wrong password fail with the same message.
func (s *Service) AuthenticateDoctor(ctx context.Context, credentials *types.Credentials) (*types.AuthResult, error) {
	if credentials.Email == "" || credentials.Password == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Email and password are required")
	}

	email := strings.ToLower(strings.TrimSpace(credentials.Email))

	doctor, err := s.doctorRepo.GetByEmail(ctx, email)
	if err != nil {
		if types.IsNotFound(err) {
			s.logger.Audit("", "signin", "doctor", false, map[string]interface{}{"email": email})
			return nil, types.NewAuthenticationError(types.ErrCodeAuthenticationFailed, "Invalid email or password")
		}
		return nil, err
	}

	if err := s.passwordManager.Verify(credentials.Password, doctor.PasswordHash); err != nil {
		s.logger.Audit(doctor.DoctorID, "signin", "doctor", false, nil)
		return nil, err
	}

	token, err := s.issueToken(doctor)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to issue token", err)
	}

	s.logger.Audit(doctor.DoctorID, "signin", "doctor", true, nil)

	return &types.AuthResult{
		DoctorID:   doctor.DoctorID,
		DoctorName: doctor.DoctorName,
		Email:      doctor.Email,
		Token:      token,
	}, nil
}

// issueToken signs an HS256 access token carrying the doctor identity
func (s *Service) issueToken(doctor *types.Doctor) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":         doctor.DoctorID,
		"doctor_name": doctor.DoctorName,
		"email":       doctor.Email,
		"iss":         s.config.Issuer,
		"aud":         s.config.Audience,
		"iat":         now.Unix(),
		"exp":         now.Add(time.Duration(s.config.AccessTokenTTL) * time.Second).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// validateRegistrationRequest checks required sign-up fields
func validateRegistrationRequest(req *types.DoctorRegistrationRequest) error {
	if req.DoctorName == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "Doctor name is required")
	}
	if req.Email == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "Email is required")
	}
	if !strings.Contains(req.Email, "@") {
		return types.NewValidationError(types.ErrCodeInvalidInput, "Email is invalid")
	}
	if req.ContactNo == "" {
		return types.NewValidationError(types.ErrCodeInvalidInput, "Contact number is required")
	}
	if len(req.Password) < 8 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "Password must be at least 8 characters")
	}
	return nil
}
