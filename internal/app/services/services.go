// Package services implements the application's business rules on top of the
// repository layer: authentication, the academic hierarchy, student
// lifecycle, recipient resolution and the student data integration surface.
package services

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/adeyemi/campuscore/internal/app/repositories"
	"github.com/adeyemi/campuscore/internal/cache"
	"github.com/adeyemi/campuscore/internal/db"
	"github.com/adeyemi/campuscore/internal/pkg/auth"
	"github.com/adeyemi/campuscore/internal/pkg/mailer"
)

// Services holds all the service instances
type Services struct {
	AuthService         *AuthService
	HierarchyService    *HierarchyService
	MatriculeService    *MatriculeService
	StudentService      *StudentService
	RecipientService    *RecipientService
	IntegrationService  *IntegrationService
	NotificationService *NotificationService
}

// NewServices wires every service against its collaborators.
func NewServices(
	database *db.PostgresDB,
	repos *repositories.Repositories,
	appCache cache.Cache,
	jwtService *auth.JWTService,
	m mailer.Mailer,
	studentDataTTL time.Duration,
	logger zerolog.Logger,
) *Services {
	recipientService := NewRecipientService(repos.StudentRepository, logger)

	return &Services{
		AuthService:         NewAuthService(repos.UserRepository, jwtService, logger),
		HierarchyService:    NewHierarchyService(repos, logger),
		MatriculeService:    NewMatriculeService(repos, logger),
		StudentService:      NewStudentService(database, repos, appCache, logger),
		RecipientService:    recipientService,
		IntegrationService:  NewIntegrationService(repos.StudentRepository, recipientService, appCache, studentDataTTL, logger),
		NotificationService: NewNotificationService(recipientService, m, logger),
	}
}
