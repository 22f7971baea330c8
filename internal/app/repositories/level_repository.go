package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adeyemi/campuscore/internal/app/models"
)

var ErrLevelNotFound = errors.New("level not found")

// LevelRepository handles database operations for academic levels
type LevelRepository struct {
	db *pgxpool.Pool
}

// NewLevelRepository creates a new level repository
func NewLevelRepository(db *pgxpool.Pool) *LevelRepository {
	return &LevelRepository{db: db}
}

// Create creates a new level
func (r *LevelRepository) Create(ctx context.Context, level *models.Level) error {
	query := `
		INSERT INTO levels (department_id, name, code, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, level.DepartmentID, level.Name, level.Code, level.IsActive).Scan(&level.ID)
	if err != nil {
		return fmt.Errorf("error creating level: %w", err)
	}

	return nil
}

// GetByID retrieves a level by ID
func (r *LevelRepository) GetByID(ctx context.Context, id int64) (*models.Level, error) {
	query := `
		SELECT id, department_id, name, code, is_active
		FROM levels
		WHERE id = $1
	`

	var level models.Level
	err := r.db.QueryRow(ctx, query, id).Scan(
		&level.ID, &level.DepartmentID, &level.Name, &level.Code, &level.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("error retrieving level: %w", err)
	}

	return &level, nil
}

// GetByDepartmentID retrieves all levels for a given department
func (r *LevelRepository) GetByDepartmentID(ctx context.Context, departmentID int64) ([]*models.Level, error) {
	query := `
		SELECT id, department_id, name, code, is_active
		FROM levels
		WHERE department_id = $1
		ORDER BY code
	`

	rows, err := r.db.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []*models.Level
	for rows.Next() {
		var level models.Level
		if err := rows.Scan(
			&level.ID, &level.DepartmentID, &level.Name, &level.Code, &level.IsActive,
		); err != nil {
			return nil, err
		}
		levels = append(levels, &level)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return levels, nil
}
