package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adeyemi/campuscore/internal/app/models"
	"github.com/adeyemi/campuscore/internal/app/repositories"
	"github.com/adeyemi/campuscore/internal/cache"
	"github.com/adeyemi/campuscore/internal/db"
	"github.com/adeyemi/campuscore/internal/pkg/apperrors"
	"github.com/adeyemi/campuscore/internal/pkg/auth"
	"github.com/adeyemi/campuscore/internal/pkg/emailaddr"
)

// RegisterStudentInput carries everything needed to register a student
// against a pre-approved matricule.
type RegisterStudentInput struct {
	Matricule   string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	FaceConsent bool
}

// StudentService owns the student lifecycle: registration against approved
// matricules, activation state and level selection.
type StudentService struct {
	db            *db.PostgresDB
	studentRepo   *repositories.StudentRepository
	userRepo      *repositories.UserRepository
	matriculeRepo *repositories.MatriculeRepository
	deptRepo      *repositories.DepartmentRepository
	facultyRepo   *repositories.FacultyRepository
	levelRepo     *repositories.LevelRepository
	cache         CacheInvalidator
	logger        zerolog.Logger
}

// CacheInvalidator is the slice of the cache surface the write side needs:
// any successful mutation of student data invalidates the cached directory
// reads so the reporting layer never serves stale populations past a write.
type CacheInvalidator interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

// NewStudentService creates a new student service.
func NewStudentService(
	database *db.PostgresDB,
	repos *repositories.Repositories,
	cache CacheInvalidator,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		db:            database,
		studentRepo:   repos.StudentRepository,
		userRepo:      repos.UserRepository,
		matriculeRepo: repos.MatriculeRepository,
		deptRepo:      repos.DepartmentRepository,
		facultyRepo:   repos.FacultyRepository,
		levelRepo:     repos.LevelRepository,
		cache:         cache,
		logger:        logger,
	}
}

// Register creates a user account and its student record against an approved
// matricule. The account insert, the student insert and the matricule
// consumption commit or roll back together, so a matricule can never end up
// consumed without its student existing.
func (s *StudentService) Register(ctx context.Context, input RegisterStudentInput) (*models.Student, error) {
	matricule := strings.TrimSpace(input.Matricule)
	email := emailaddr.Normalize(input.Email)

	if !emailaddr.IsValid(email) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "a valid email address is required")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "password must be at least 8 characters")
	}

	approved, err := s.matriculeRepo.GetByMatricule(ctx, matricule)
	if err != nil {
		if errors.Is(err, repositories.ErrMatriculeNotFound) {
			return nil, apperrors.ErrMatriculeNotApproved
		}
		return nil, fmt.Errorf("failed to look up matricule: %w", err)
	}
	if approved.IsUsed {
		return nil, apperrors.ErrMatriculeAlreadyUsed
	}

	if err := s.validateHierarchy(ctx, approved); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		IsActive:  true,
	}

	student := &models.Student{
		FullName:      user.FullName(),
		MatricNumber:  matricule,
		InstitutionID: approved.InstitutionID,
		FacultyID:     approved.FacultyID,
		ProgramID:     approved.ProgramID,
		IsActive:      true,
		IsApproved:    true,
		FaceConsent:   input.FaceConsent,
	}

	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			if errors.Is(err, repositories.ErrEmailExists) {
				return apperrors.ErrEmailAlreadyExists
			}
			return err
		}

		student.UserID = &user.ID
		student.DepartmentID = &approved.DepartmentID
		if err := s.studentRepo.Create(ctx, tx, student); err != nil {
			if errors.Is(err, repositories.ErrMatricNumberExists) {
				return apperrors.ErrMatricNumberExists
			}
			return err
		}

		if err := s.matriculeRepo.Consume(ctx, tx, matricule, user.ID); err != nil {
			if errors.Is(err, repositories.ErrMatriculeAlreadyUsed) {
				return apperrors.ErrMatriculeAlreadyUsed
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	student.User = user
	s.invalidateDirectoryCache(ctx)

	s.logger.Info().
		Int64("studentId", student.ID).
		Str("matricule", matricule).
		Msg("Student registered")

	return student, nil
}

// validateHierarchy checks that the matricule's department belongs to its
// faculty and the faculty to its institution.
func (s *StudentService) validateHierarchy(ctx context.Context, m *models.ApprovedMatricule) error {
	department, err := s.deptRepo.GetByID(ctx, m.DepartmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrDepartmentNotFound) {
			return apperrors.ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to load department: %w", err)
	}
	if department.FacultyID != m.FacultyID {
		return apperrors.ErrHierarchyMismatch
	}

	faculty, err := s.facultyRepo.GetByID(ctx, m.FacultyID)
	if err != nil {
		if errors.Is(err, repositories.ErrFacultyNotFound) {
			return apperrors.ErrFacultyNotFound
		}
		return fmt.Errorf("failed to load faculty: %w", err)
	}
	if faculty.InstitutionID != m.InstitutionID {
		return apperrors.ErrHierarchyMismatch
	}

	return nil
}

// GetByID returns one student with relations populated.
func (s *StudentService) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// List returns students matching the filter.
func (s *StudentService) List(ctx context.Context, filter repositories.StudentFilter) ([]*models.Student, error) {
	return s.studentRepo.List(ctx, filter)
}

// Deactivate soft-deactivates a student record. The record and its history
// are preserved and keep appearing in the reporting layer.
func (s *StudentService) Deactivate(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, false)
}

// Reactivate restores a deactivated student record.
func (s *StudentService) Reactivate(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, true)
}

func (s *StudentService) setActive(ctx context.Context, id int64, active bool) error {
	err := s.studentRepo.SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return err
	}

	s.invalidateDirectoryCache(ctx)
	s.logger.Info().Int64("studentId", id).Bool("active", active).Msg("Student activation state changed")
	return nil
}

// SelectLevel records a level choice for a student. The level must belong to
// the student's own department.
func (s *StudentService) SelectLevel(ctx context.Context, studentID, levelID int64) error {
	student, err := s.GetByID(ctx, studentID)
	if err != nil {
		return err
	}

	level, err := s.levelRepo.GetByID(ctx, levelID)
	if err != nil {
		if errors.Is(err, repositories.ErrLevelNotFound) {
			return apperrors.ErrLevelNotFound
		}
		return fmt.Errorf("failed to load level: %w", err)
	}

	if student.DepartmentID == nil || *student.DepartmentID != level.DepartmentID {
		return apperrors.ErrHierarchyMismatch
	}

	if err := s.studentRepo.SelectLevel(ctx, studentID, levelID); err != nil {
		return err
	}

	s.invalidateDirectoryCache(ctx)
	return nil
}

// invalidateDirectoryCache drops cached directory reads after a write. A
// failed invalidation is logged, not surfaced: the entries expire on their
// own TTL.
func (s *StudentService) invalidateDirectoryCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, cache.StudentDataPrefix); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to invalidate student cache")
	}
}
