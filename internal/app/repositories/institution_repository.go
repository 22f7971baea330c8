package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adeyemi/campuscore/internal/app/models"
)

var ErrInstitutionNotFound = errors.New("institution not found")

// InstitutionRepository handles database operations for institutions
type InstitutionRepository struct {
	db *pgxpool.Pool
}

// NewInstitutionRepository creates a new institution repository
func NewInstitutionRepository(db *pgxpool.Pool) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

// Create creates a new institution
func (r *InstitutionRepository) Create(ctx context.Context, institution *models.Institution) error {
	query := `
		INSERT INTO institutions (name, code)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, institution.Name, institution.Code).Scan(&institution.ID)
	if err != nil {
		return fmt.Errorf("error creating institution: %w", err)
	}

	return nil
}

// GetByID retrieves an institution by ID
func (r *InstitutionRepository) GetByID(ctx context.Context, id int64) (*models.Institution, error) {
	query := `
		SELECT id, name, code
		FROM institutions
		WHERE id = $1
	`

	var institution models.Institution
	err := r.db.QueryRow(ctx, query, id).Scan(&institution.ID, &institution.Name, &institution.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInstitutionNotFound
		}
		return nil, fmt.Errorf("error retrieving institution: %w", err)
	}

	return &institution, nil
}

// GetAll retrieves all institutions
func (r *InstitutionRepository) GetAll(ctx context.Context) ([]*models.Institution, error) {
	query := `
		SELECT id, name, code
		FROM institutions
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var institutions []*models.Institution
	for rows.Next() {
		var institution models.Institution
		if err := rows.Scan(&institution.ID, &institution.Name, &institution.Code); err != nil {
			return nil, err
		}
		institutions = append(institutions, &institution)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return institutions, nil
}
