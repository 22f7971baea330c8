package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adeyemi/campuscore/internal/app/models"
	"github.com/adeyemi/campuscore/internal/pkg/dberrors"
	"github.com/adeyemi/campuscore/internal/pkg/logger"
)

var (
	ErrMatriculeNotFound    = errors.New("approved matricule not found")
	ErrMatriculeExists      = errors.New("matricule already provisioned")
	ErrMatriculeAlreadyUsed = errors.New("matricule has already been used")
)

// MatriculeRepository manages pre-issued registration tokens.
type MatriculeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMatriculeRepository creates a new MatriculeRepository.
func NewMatriculeRepository(db *pgxpool.Pool) *MatriculeRepository {
	return &MatriculeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create provisions a new approved matricule.
func (r *MatriculeRepository) Create(ctx context.Context, m *models.ApprovedMatricule) error {
	sql, args, err := r.sb.Insert("approved_matricules").
		Columns("matricule", "institution_id", "faculty_id", "department_id", "program_id").
		Values(m.Matricule, m.InstitutionID, m.FacultyID, m.DepartmentID, m.ProgramID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create matricule query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "approved_matricules_matricule_key") {
			return ErrMatriculeExists
		}
		return fmt.Errorf("error creating approved matricule: %w", err)
	}
	return nil
}

// GetByMatricule retrieves an approved matricule by its matriculation string.
func (r *MatriculeRepository) GetByMatricule(ctx context.Context, matricule string) (*models.ApprovedMatricule, error) {
	var m models.ApprovedMatricule
	err := r.db.QueryRow(ctx, `
		SELECT id, matricule, institution_id, faculty_id, department_id, program_id,
		       is_used, used_at, used_by, created_at
		FROM approved_matricules
		WHERE matricule = $1
	`, matricule).Scan(
		&m.ID, &m.Matricule, &m.InstitutionID, &m.FacultyID, &m.DepartmentID,
		&m.ProgramID, &m.IsUsed, &m.UsedAt, &m.UsedBy, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatriculeNotFound
		}
		return nil, fmt.Errorf("error retrieving approved matricule: %w", err)
	}
	return &m, nil
}

// Consume atomically marks a matricule as used by the given account. The
// guard on is_used makes the operation first-wins: a second caller gets
// ErrMatriculeAlreadyUsed (or ErrMatriculeNotFound if no such matricule
// exists), so one matricule can never be consumed twice.
func (r *MatriculeRepository) Consume(ctx context.Context, tx pgx.Tx, matricule string, userID int64) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE approved_matricules
		SET is_used = TRUE, used_at = NOW(), used_by = $2
		WHERE matricule = $1 AND is_used = FALSE
	`, matricule, userID)
	if err != nil {
		return fmt.Errorf("error consuming approved matricule: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM approved_matricules WHERE matricule = $1)`,
			matricule).Scan(&exists); err != nil {
			return fmt.Errorf("error checking matricule existence: %w", err)
		}
		if exists {
			logger.Warn().Str("matricule", matricule).Msg("Attempted to reuse a consumed matricule")
			return ErrMatriculeAlreadyUsed
		}
		return ErrMatriculeNotFound
	}

	return nil
}

// ListUnused returns matricules still available for registration.
func (r *MatriculeRepository) ListUnused(ctx context.Context) ([]*models.ApprovedMatricule, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, matricule, institution_id, faculty_id, department_id, program_id,
		       is_used, used_at, used_by, created_at
		FROM approved_matricules
		WHERE is_used = FALSE
		ORDER BY matricule
	`)
	if err != nil {
		return nil, fmt.Errorf("error listing approved matricules: %w", err)
	}
	defer rows.Close()

	var matricules []*models.ApprovedMatricule
	for rows.Next() {
		var m models.ApprovedMatricule
		if err := rows.Scan(
			&m.ID, &m.Matricule, &m.InstitutionID, &m.FacultyID, &m.DepartmentID,
			&m.ProgramID, &m.IsUsed, &m.UsedAt, &m.UsedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning approved matricule: %w", err)
		}
		matricules = append(matricules, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return matricules, nil
}
