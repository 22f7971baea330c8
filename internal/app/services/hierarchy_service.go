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

// HierarchyService manages the academic reference data: institutions,
// faculties, departments, programs and levels.
type HierarchyService struct {
	institutionRepo *repositories.InstitutionRepository
	facultyRepo     *repositories.FacultyRepository
	deptRepo        *repositories.DepartmentRepository
	programRepo     *repositories.ProgramRepository
	levelRepo       *repositories.LevelRepository
	logger          zerolog.Logger
}

// NewHierarchyService creates a new hierarchy service.
func NewHierarchyService(repos *repositories.Repositories, logger zerolog.Logger) *HierarchyService {
	return &HierarchyService{
		institutionRepo: repos.InstitutionRepository,
		facultyRepo:     repos.FacultyRepository,
		deptRepo:        repos.DepartmentRepository,
		programRepo:     repos.ProgramRepository,
		levelRepo:       repos.LevelRepository,
		logger:          logger,
	}
}

// CreateInstitution registers a new institution.
func (s *HierarchyService) CreateInstitution(ctx context.Context, name, code string) (*models.Institution, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "institution name is required")
	}

	institution := &models.Institution{Name: name, Code: strings.TrimSpace(code)}
	if err := s.institutionRepo.Create(ctx, institution); err != nil {
		return nil, err
	}
	return institution, nil
}

// ListInstitutions returns all institutions.
func (s *HierarchyService) ListInstitutions(ctx context.Context) ([]*models.Institution, error) {
	return s.institutionRepo.GetAll(ctx)
}

// CreateFaculty registers a faculty under an existing institution.
func (s *HierarchyService) CreateFaculty(ctx context.Context, institutionID int64, name string) (*models.Faculty, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "faculty name is required")
	}

	if _, err := s.institutionRepo.GetByID(ctx, institutionID); err != nil {
		if errors.Is(err, repositories.ErrInstitutionNotFound) {
			return nil, apperrors.ErrInstitutionNotFound
		}
		return nil, err
	}

	faculty := &models.Faculty{InstitutionID: institutionID, Name: name}
	if err := s.facultyRepo.Create(ctx, faculty); err != nil {
		if errors.Is(err, repositories.ErrFacultyAlreadyExists) {
			return nil, apperrors.ErrFacultyAlreadyExists
		}
		return nil, err
	}
	return faculty, nil
}

// ListFaculties returns the faculties of one institution.
func (s *HierarchyService) ListFaculties(ctx context.Context, institutionID int64) ([]*models.Faculty, error) {
	return s.facultyRepo.GetByInstitutionID(ctx, institutionID)
}

// CreateDepartment registers a department under an existing faculty.
func (s *HierarchyService) CreateDepartment(ctx context.Context, facultyID int64, name, code string) (*models.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "department name is required")
	}

	if _, err := s.facultyRepo.GetByID(ctx, facultyID); err != nil {
		if errors.Is(err, repositories.ErrFacultyNotFound) {
			return nil, apperrors.ErrFacultyNotFound
		}
		return nil, err
	}

	department := &models.Department{FacultyID: facultyID, Name: name, Code: strings.TrimSpace(code)}
	if err := s.deptRepo.Create(ctx, department); err != nil {
		if errors.Is(err, repositories.ErrDepartmentAlreadyExists) {
			return nil, apperrors.ErrDepartmentAlreadyExists
		}
		return nil, err
	}
	return department, nil
}

// ListDepartments returns all departments, or the departments of one faculty
// when facultyID is non-zero.
func (s *HierarchyService) ListDepartments(ctx context.Context, facultyID int64) ([]*models.Department, error) {
	if facultyID > 0 {
		return s.deptRepo.GetByFacultyID(ctx, facultyID)
	}
	return s.deptRepo.GetAll(ctx)
}

// CreateProgram registers an academic program under an institution.
func (s *HierarchyService) CreateProgram(ctx context.Context, institutionID int64, name string) (*models.AcademicProgram, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "program name is required")
	}

	if _, err := s.institutionRepo.GetByID(ctx, institutionID); err != nil {
		if errors.Is(err, repositories.ErrInstitutionNotFound) {
			return nil, apperrors.ErrInstitutionNotFound
		}
		return nil, err
	}

	program := &models.AcademicProgram{InstitutionID: institutionID, Name: name}
	if err := s.programRepo.Create(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// CreateLevel registers an academic level under a department.
func (s *HierarchyService) CreateLevel(ctx context.Context, departmentID int64, name string, code int) (*models.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "level name is required")
	}

	if _, err := s.deptRepo.GetByID(ctx, departmentID); err != nil {
		if errors.Is(err, repositories.ErrDepartmentNotFound) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, err
	}

	level := &models.Level{DepartmentID: departmentID, Name: name, Code: code, IsActive: true}
	if err := s.levelRepo.Create(ctx, level); err != nil {
		return nil, err
	}
	return level, nil
}

// ListLevels returns the levels of one department.
func (s *HierarchyService) ListLevels(ctx context.Context, departmentID int64) ([]*models.Level, error) {
	return s.levelRepo.GetByDepartmentID(ctx, departmentID)
}
