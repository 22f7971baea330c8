package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adeyemi/campuscore/internal/app/models"
)

var ErrProgramNotFound = errors.New("academic program not found")

// ProgramRepository handles database operations for academic programs
type ProgramRepository struct {
	db *pgxpool.Pool
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(db *pgxpool.Pool) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// Create creates a new academic program
func (r *ProgramRepository) Create(ctx context.Context, program *models.AcademicProgram) error {
	query := `
		INSERT INTO academic_programs (institution_id, name)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, program.InstitutionID, program.Name).Scan(&program.ID)
	if err != nil {
		return fmt.Errorf("error creating academic program: %w", err)
	}

	return nil
}

// GetByID retrieves an academic program by ID
func (r *ProgramRepository) GetByID(ctx context.Context, id int64) (*models.AcademicProgram, error) {
	query := `
		SELECT id, institution_id, name
		FROM academic_programs
		WHERE id = $1
	`

	var program models.AcademicProgram
	err := r.db.QueryRow(ctx, query, id).Scan(&program.ID, &program.InstitutionID, &program.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("error retrieving academic program: %w", err)
	}

	return &program, nil
}

// GetByInstitutionID retrieves all programs offered by an institution
func (r *ProgramRepository) GetByInstitutionID(ctx context.Context, institutionID int64) ([]*models.AcademicProgram, error) {
	query := `
		SELECT id, institution_id, name
		FROM academic_programs
		WHERE institution_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, institutionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []*models.AcademicProgram
	for rows.Next() {
		var program models.AcademicProgram
		if err := rows.Scan(&program.ID, &program.InstitutionID, &program.Name); err != nil {
			return nil, err
		}
		programs = append(programs, &program)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return programs, nil
}
