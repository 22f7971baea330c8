package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository        *UserRepository
	InstitutionRepository *InstitutionRepository
	FacultyRepository     *FacultyRepository
	DepartmentRepository  *DepartmentRepository
	ProgramRepository     *ProgramRepository
	LevelRepository       *LevelRepository
	StudentRepository     *StudentRepository
	MatriculeRepository   *MatriculeRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:        NewUserRepository(db),
		InstitutionRepository: NewInstitutionRepository(db),
		FacultyRepository:     NewFacultyRepository(db),
		DepartmentRepository:  NewDepartmentRepository(db),
		ProgramRepository:     NewProgramRepository(db),
		LevelRepository:       NewLevelRepository(db),
		StudentRepository:     NewStudentRepository(db),
		MatriculeRepository:   NewMatriculeRepository(db),
	}
}
