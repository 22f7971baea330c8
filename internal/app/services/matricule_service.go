package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adeyemi/campuscore/internal/app/models"
	"github.com/adeyemi/campuscore/internal/app/repositories"
	"github.com/adeyemi/campuscore/internal/pkg/apperrors"
)

// MatriculeService provisions approved matricules for later registration.
type MatriculeService struct {
	matriculeRepo *repositories.MatriculeRepository
	deptRepo      *repositories.DepartmentRepository
	facultyRepo   *repositories.FacultyRepository
	logger        zerolog.Logger
}

// NewMatriculeService creates a new matricule service.
func NewMatriculeService(repos *repositories.Repositories, logger zerolog.Logger) *MatriculeService {
	return &MatriculeService{
		matriculeRepo: repos.MatriculeRepository,
		deptRepo:      repos.DepartmentRepository,
		facultyRepo:   repos.FacultyRepository,
		logger:        logger,
	}
}

// ProvisionInput describes a matricule to approve.
type ProvisionInput struct {
	Matricule     string
	InstitutionID int64
	FacultyID     int64
	DepartmentID  int64
	ProgramID     int64
}

// Provision places a matricule on the approved list. The hierarchy it names
// must be internally consistent, the same check registration performs later.
func (s *MatriculeService) Provision(ctx context.Context, input ProvisionInput) (*models.ApprovedMatricule, error) {
	matricule := strings.TrimSpace(input.Matricule)
	if matricule == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "matricule is required")
	}

	department, err := s.deptRepo.GetByID(ctx, input.DepartmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrDepartmentNotFound) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, err
	}
	if department.FacultyID != input.FacultyID {
		return nil, apperrors.ErrHierarchyMismatch
	}

	faculty, err := s.facultyRepo.GetByID(ctx, input.FacultyID)
	if err != nil {
		if errors.Is(err, repositories.ErrFacultyNotFound) {
			return nil, apperrors.ErrFacultyNotFound
		}
		return nil, err
	}
	if faculty.InstitutionID != input.InstitutionID {
		return nil, apperrors.ErrHierarchyMismatch
	}

	approved := &models.ApprovedMatricule{
		Matricule:     matricule,
		InstitutionID: input.InstitutionID,
		FacultyID:     input.FacultyID,
		DepartmentID:  input.DepartmentID,
		ProgramID:     input.ProgramID,
	}
	if err := s.matriculeRepo.Create(ctx, approved); err != nil {
		if errors.Is(err, repositories.ErrMatriculeExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "matricule already provisioned")
		}
		return nil, err
	}

	s.logger.Info().Str("matricule", matricule).Msg("Matricule provisioned")
	return approved, nil
}

// ListUnused returns matricules still awaiting registration.
func (s *MatriculeService) ListUnused(ctx context.Context) ([]*models.ApprovedMatricule, error) {
	return s.matriculeRepo.ListUnused(ctx)
}
