package services

import (
	"context"

	"github.com/adeyemi/campuscore/internal/app/models"
	"github.com/adeyemi/campuscore/internal/app/repositories"
)

// StudentDirectory is the read surface over the authoritative student store
// consumed by the recipient and integration services. The concrete
// implementation is repositories.StudentRepository; tests substitute an
// in-memory fake.
type StudentDirectory interface {
	List(ctx context.Context, filter repositories.StudentFilter) ([]*models.Student, error)
	Counts(ctx context.Context) (repositories.StudentCounts, error)
	DepartmentUtilization(ctx context.Context) (repositories.UtilizationCounts, error)
	LevelUtilization(ctx context.Context) (repositories.UtilizationCounts, error)
}

var _ StudentDirectory = (*repositories.StudentRepository)(nil)

func boolPtr(v bool) *bool { return &v }
