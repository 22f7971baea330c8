package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adeyemi/campuscore/internal/app/models"
	"github.com/adeyemi/campuscore/internal/pkg/dberrors"
	"github.com/adeyemi/campuscore/internal/pkg/logger"
)

var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrMatricNumberExists  = errors.New("matriculation number already registered")
)

// StudentFilter narrows a directory read. Zero value selects every student.
type StudentFilter struct {
	IDs               []int64
	DepartmentIDs     []int64
	Levels            []string // matched against level name or numeric code
	LevelDepartmentID *int64   // optional department scoping for level matches
	Active            *bool
	RequireEmail      bool // keep only students whose account has a non-blank email
}

// StudentCounts carries population totals.
type StudentCounts struct {
	Total  int64
	Active int64
}

// UtilizationCounts carries structural utilization totals.
type UtilizationCounts struct {
	Total        int64
	WithStudents int64
}

// StudentRepository is the authoritative read/write surface over the
// students table and its related reference data.
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List performs the directory read-model query: one round trip joining
// students with their user account, institution, faculty, department,
// program and level selections. Students with several level selections span
// several rows and are folded back into one record, so no N+1 access occurs.
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter) ([]*models.Student, error) {
	builder := r.sb.Select(
		"s.id", "s.user_id", "s.full_name", "s.matric_number",
		"s.institution_id", "s.faculty_id", "s.department_id", "s.program_id",
		"s.is_active", "s.is_approved", "s.face_consent", "s.created_at",
		"u.email", "u.first_name", "u.last_name", "u.is_staff", "u.is_active",
		"i.name", "i.code",
		"f.name",
		"d.name", "d.code",
		"p.name",
		"sel.id", "sel.level_id", "sel.selected_at",
		"l.name", "l.code", "l.is_active", "l.department_id",
	).
		From("students s").
		LeftJoin("users u ON u.id = s.user_id").
		LeftJoin("institutions i ON i.id = s.institution_id").
		LeftJoin("faculties f ON f.id = s.faculty_id").
		LeftJoin("departments d ON d.id = s.department_id").
		LeftJoin("academic_programs p ON p.id = s.program_id").
		LeftJoin("student_level_selections sel ON sel.student_id = s.id").
		LeftJoin("levels l ON l.id = sel.level_id").
		OrderBy("s.full_name", "s.id")

	if len(filter.IDs) > 0 {
		builder = builder.Where(squirrel.Eq{"s.id": filter.IDs})
	}
	if len(filter.DepartmentIDs) > 0 {
		builder = builder.Where(squirrel.Eq{"s.department_id": filter.DepartmentIDs})
	}
	if filter.Active != nil {
		builder = builder.Where(squirrel.Eq{"s.is_active": *filter.Active})
	}
	if filter.RequireEmail {
		builder = builder.Where("u.email IS NOT NULL AND btrim(u.email) <> ''")
	}
	if len(filter.Levels) > 0 {
		builder = builder.Where(squirrel.Expr(
			`EXISTS (
				SELECT 1 FROM student_level_selections ls
				JOIN levels lv ON lv.id = ls.level_id
				WHERE ls.student_id = s.id
				  AND (lv.name = ANY(?) OR lv.code::text = ANY(?))
			)`, filter.Levels, filter.Levels))
	}
	if filter.LevelDepartmentID != nil {
		builder = builder.Where(squirrel.Eq{"s.department_id": *filter.LevelDepartmentID})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student list SQL")
		return nil, fmt.Errorf("failed to build student list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var (
		students []*models.Student
		byID     = make(map[int64]*models.Student)
	)

	for rows.Next() {
		var (
			s models.Student

			userEmail     *string
			userFirstName *string
			userLastName  *string
			userIsStaff   *bool
			userIsActive  *bool

			instName *string
			instCode *string
			facName  *string
			deptName *string
			deptCode *string
			progName *string

			selID         *int64
			selLevelID    *int64
			selSelectedAt *time.Time
			levelName     *string
			levelCode     *int
			levelActive   *bool
			levelDeptID   *int64
		)

		if err := rows.Scan(
			&s.ID, &s.UserID, &s.FullName, &s.MatricNumber,
			&s.InstitutionID, &s.FacultyID, &s.DepartmentID, &s.ProgramID,
			&s.IsActive, &s.IsApproved, &s.FaceConsent, &s.CreatedAt,
			&userEmail, &userFirstName, &userLastName, &userIsStaff, &userIsActive,
			&instName, &instCode,
			&facName,
			&deptName, &deptCode,
			&progName,
			&selID, &selLevelID, &selSelectedAt,
			&levelName, &levelCode, &levelActive, &levelDeptID,
		); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}

		student, seen := byID[s.ID]
		if !seen {
			student = &s
			if s.UserID != nil {
				student.User = &models.User{
					ID:        *s.UserID,
					Email:     deref(userEmail),
					FirstName: deref(userFirstName),
					LastName:  deref(userLastName),
					IsStaff:   userIsStaff != nil && *userIsStaff,
					IsActive:  userIsActive != nil && *userIsActive,
				}
			}
			if instName != nil {
				student.Institution = &models.Institution{ID: s.InstitutionID, Name: *instName, Code: deref(instCode)}
			}
			if facName != nil {
				student.Faculty = &models.Faculty{ID: s.FacultyID, InstitutionID: s.InstitutionID, Name: *facName}
			}
			if s.DepartmentID != nil && deptName != nil {
				student.Department = &models.Department{ID: *s.DepartmentID, FacultyID: s.FacultyID, Name: *deptName, Code: deref(deptCode)}
			}
			if progName != nil {
				student.Program = &models.AcademicProgram{ID: s.ProgramID, InstitutionID: s.InstitutionID, Name: *progName}
			}
			byID[s.ID] = student
			students = append(students, student)
		}

		if selID != nil && selLevelID != nil {
			selection := models.LevelSelection{
				ID:        *selID,
				StudentID: student.ID,
				LevelID:   *selLevelID,
			}
			if selSelectedAt != nil {
				selection.SelectedAt = *selSelectedAt
			}
			if levelName != nil {
				selection.Level = &models.Level{
					ID:           *selLevelID,
					DepartmentID: derefInt64(levelDeptID),
					Name:         *levelName,
					Code:         derefInt(levelCode),
					IsActive:     levelActive != nil && *levelActive,
				}
			}
			student.LevelSelections = append(student.LevelSelections, selection)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading student rows: %w", err)
	}

	return students, nil
}

// GetByID retrieves one enriched student record.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	students, err := r.List(ctx, StudentFilter{IDs: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, ErrStudentNotFound
	}
	return students[0], nil
}

// Create inserts a student row inside the given transaction.
func (r *StudentRepository) Create(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("user_id", "full_name", "matric_number", "institution_id",
			"faculty_id", "department_id", "program_id", "is_active", "is_approved", "face_consent").
		Values(student.UserID, student.FullName, student.MatricNumber, student.InstitutionID,
			student.FacultyID, student.DepartmentID, student.ProgramID, student.IsActive,
			student.IsApproved, student.FaceConsent).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = tx.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_matric_number_key") {
			logger.Warn().Str("matricNumber", student.MatricNumber).Msg("Attempted to register duplicate matric number")
			return ErrMatricNumberExists
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Int64("studentID", student.ID).Str("matricNumber", student.MatricNumber).Msg("Student created")
	return nil
}

// SetActive toggles the soft-deactivation flag. Students are never hard
// deleted in normal operation.
func (r *StudentRepository) SetActive(ctx context.Context, id int64, active bool) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE students SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("error updating student activation: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// Counts returns total and active student counts in one round trip.
func (r *StudentRepository) Counts(ctx context.Context) (StudentCounts, error) {
	var counts StudentCounts
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM students`,
	).Scan(&counts.Total, &counts.Active)
	if err != nil {
		return StudentCounts{}, fmt.Errorf("error counting students: %w", err)
	}
	return counts, nil
}

// DepartmentUtilization returns how many departments exist and how many have
// at least one active student.
func (r *StudentRepository) DepartmentUtilization(ctx context.Context) (UtilizationCounts, error) {
	var counts UtilizationCounts
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM departments),
			(SELECT COUNT(DISTINCT department_id) FROM students
			 WHERE is_active AND department_id IS NOT NULL)
	`).Scan(&counts.Total, &counts.WithStudents)
	if err != nil {
		return UtilizationCounts{}, fmt.Errorf("error computing department utilization: %w", err)
	}
	return counts, nil
}

// LevelUtilization returns how many levels exist and how many have at least
// one active student selection.
func (r *StudentRepository) LevelUtilization(ctx context.Context) (UtilizationCounts, error) {
	var counts UtilizationCounts
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM levels),
			(SELECT COUNT(DISTINCT sel.level_id)
			 FROM student_level_selections sel
			 JOIN students s ON s.id = sel.student_id
			 WHERE s.is_active)
	`).Scan(&counts.Total, &counts.WithStudents)
	if err != nil {
		return UtilizationCounts{}, fmt.Errorf("error computing level utilization: %w", err)
	}
	return counts, nil
}

// SelectLevel records a level choice for a student.
func (r *StudentRepository) SelectLevel(ctx context.Context, studentID, levelID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO student_level_selections (student_id, level_id)
		VALUES ($1, $2)
		ON CONFLICT (student_id, level_id) DO NOTHING
	`, studentID, levelID)
	if err != nil {
		return fmt.Errorf("error recording level selection: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
