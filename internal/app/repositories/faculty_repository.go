package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adeyemi/campuscore/internal/app/models"
	"github.com/adeyemi/campuscore/internal/pkg/dberrors"
)

var (
	ErrFacultyNotFound      = errors.New("faculty not found")
	ErrFacultyAlreadyExists = errors.New("faculty with this name already exists")
)

// FacultyRepository handles database operations for faculties
type FacultyRepository struct {
	db *pgxpool.Pool
}

// NewFacultyRepository creates a new faculty repository
func NewFacultyRepository(db *pgxpool.Pool) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// Create creates a new faculty
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	query := `
		INSERT INTO faculties (institution_id, name)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, faculty.InstitutionID, faculty.Name).Scan(&faculty.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "faculties_institution_id_name_key") {
			return ErrFacultyAlreadyExists
		}
		return fmt.Errorf("error creating faculty: %w", err)
	}

	return nil
}

// GetByID retrieves a faculty by ID
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	query := `
		SELECT id, institution_id, name
		FROM faculties
		WHERE id = $1
	`

	var faculty models.Faculty
	err := r.db.QueryRow(ctx, query, id).Scan(&faculty.ID, &faculty.InstitutionID, &faculty.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("error retrieving faculty: %w", err)
	}

	return &faculty, nil
}

// GetAll retrieves all faculties
func (r *FacultyRepository) GetAll(ctx context.Context) ([]*models.Faculty, error) {
	query := `
		SELECT id, institution_id, name
		FROM faculties
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faculties []*models.Faculty
	for rows.Next() {
		var faculty models.Faculty
		if err := rows.Scan(&faculty.ID, &faculty.InstitutionID, &faculty.Name); err != nil {
			return nil, err
		}
		faculties = append(faculties, &faculty)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return faculties, nil
}

// GetByInstitutionID retrieves all faculties for a given institution
func (r *FacultyRepository) GetByInstitutionID(ctx context.Context, institutionID int64) ([]*models.Faculty, error) {
	query := `
		SELECT id, institution_id, name
		FROM faculties
		WHERE institution_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, institutionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faculties []*models.Faculty
	for rows.Next() {
		var faculty models.Faculty
		if err := rows.Scan(&faculty.ID, &faculty.InstitutionID, &faculty.Name); err != nil {
			return nil, err
		}
		faculties = append(faculties, &faculty)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return faculties, nil
}
