package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/adeyemi/campuscore/internal/app/models"
	appRepos "github.com/adeyemi/campuscore/internal/app/repositories"
	"github.com/adeyemi/campuscore/internal/config"
	"github.com/adeyemi/campuscore/internal/pkg/auth"
)

// CreateDefaultData creates a default institution hierarchy and an admin
// account if they don't exist. Failures are collected, not fatal: the server
// starts with whatever reference data exists.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	institutionRepo := appRepos.NewInstitutionRepository(dbPool)
	facultyRepo := appRepos.NewFacultyRepository(dbPool)
	departmentRepo := appRepos.NewDepartmentRepository(dbPool)
	programRepo := appRepos.NewProgramRepository(dbPool)
	levelRepo := appRepos.NewLevelRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	institutionID, err := ensureInstitution(ctx, institutionRepo, "University of Buea", "UB")
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default institution")
		finalErr = errors.Join(finalErr, err)
	}

	if institutionID > 0 {
		facultyID, err := ensureFaculty(ctx, facultyRepo, institutionID, "Faculty of Science")
		if err != nil {
			lgr.Error().Err(err).Msg("Error creating default faculty")
			finalErr = errors.Join(finalErr, err)
		}

		if facultyID > 0 {
			for _, d := range []struct {
				name string
				code string
			}{
				{"Computer Science", "CSC"},
				{"Mathematics", "MAT"},
			} {
				dept := &appModels.Department{FacultyID: facultyID, Name: d.name, Code: d.code}
				if err := departmentRepo.Create(ctx, dept); err != nil &&
					!errors.Is(err, appRepos.ErrDepartmentAlreadyExists) {
					lgr.Error().Err(err).Str("department", d.name).Msg("Error creating default department")
					finalErr = errors.Join(finalErr, err)
					continue
				}
				if dept.ID > 0 {
					ensureLevels(ctx, levelRepo, dept.ID, lgr)
				}
			}
		}

		programs, err := programRepo.GetByInstitutionID(ctx, institutionID)
		if err == nil && len(programs) == 0 {
			program := &appModels.AcademicProgram{InstitutionID: institutionID, Name: "B.Sc. Computer Science"}
			if err := programRepo.Create(ctx, program); err != nil {
				lgr.Error().Err(err).Msg("Error creating default program")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if err := ensureAdminUser(ctx, dbPool, userRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check complete")
	}
	return finalErr
}

func ensureInstitution(ctx context.Context, repo *appRepos.InstitutionRepository, name, code string) (int64, error) {
	institutions, err := repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, inst := range institutions {
		if inst.Code == code {
			return inst.ID, nil
		}
	}

	institution := &appModels.Institution{Name: name, Code: code}
	if err := repo.Create(ctx, institution); err != nil {
		return 0, err
	}
	return institution.ID, nil
}

func ensureFaculty(ctx context.Context, repo *appRepos.FacultyRepository, institutionID int64, name string) (int64, error) {
	faculty := &appModels.Faculty{InstitutionID: institutionID, Name: name}
	err := repo.Create(ctx, faculty)
	if err == nil {
		return faculty.ID, nil
	}
	if !errors.Is(err, appRepos.ErrFacultyAlreadyExists) {
		return 0, err
	}

	faculties, err := repo.GetByInstitutionID(ctx, institutionID)
	if err != nil {
		return 0, err
	}
	for _, f := range faculties {
		if f.Name == name {
			return f.ID, nil
		}
	}
	return 0, nil
}

func ensureLevels(ctx context.Context, repo *appRepos.LevelRepository, departmentID int64, lgr zerolog.Logger) {
	existing, err := repo.GetByDepartmentID(ctx, departmentID)
	if err != nil || len(existing) > 0 {
		return
	}

	for code := 200; code <= 600; code += 100 {
		level := &appModels.Level{
			DepartmentID: departmentID,
			Name:         levelName(code),
			Code:         code,
			IsActive:     true,
		}
		if err := repo.Create(ctx, level); err != nil {
			lgr.Error().Err(err).Int("code", code).Msg("Error creating default level")
		}
	}
}

func levelName(code int) string {
	switch code {
	case 200:
		return "200 Level"
	case 300:
		return "300 Level"
	case 400:
		return "400 Level"
	case 500:
		return "500 Level"
	default:
		return "600 Level"
	}
}

// ensureAdminUser creates the bootstrap staff account when configured.
// Without ADMIN_EMAIL and ADMIN_PASSWORD set, no account is seeded.
func ensureAdminUser(ctx context.Context, dbPool *pgxpool.Pool, userRepo *appRepos.UserRepository, lgr zerolog.Logger) error {
	adminEmail := config.GetEnv("ADMIN_EMAIL", "")
	adminPassword := config.GetEnv("ADMIN_PASSWORD", "")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	exists, err := userRepo.EmailExists(ctx, adminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for admin account")
		return err
	}
	if exists {
		return nil
	}

	hashed, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := &appModels.User{
		Email:     adminEmail,
		Password:  hashed,
		FirstName: "System",
		LastName:  "Administrator",
		IsStaff:   true,
		IsActive:  true,
	}

	tx, err := dbPool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := userRepo.Create(ctx, tx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin account")
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	lgr.Info().Str("email", adminEmail).Msg("Admin account seeded")
	return nil
}
