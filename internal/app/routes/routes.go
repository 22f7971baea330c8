package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/adeyemi/campuscore/internal/app/controllers"
	"github.com/adeyemi/campuscore/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	hierarchyController *controllers.HierarchyController,
	studentController *controllers.StudentController,
	matriculeController *controllers.MatriculeController,
	notificationController *controllers.NotificationController,
	integrationController *controllers.IntegrationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// Registration is public: the approved matricule is the gate.
	v1.POST("/students/register", studentController.Register)

	// Reference data reads are public
	v1.GET("/institutions", hierarchyController.ListInstitutions)
	v1.GET("/faculties", hierarchyController.ListFaculties)
	v1.GET("/departments", hierarchyController.ListDepartments)
	v1.GET("/levels", hierarchyController.ListLevels)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		students := authenticated.Group("/students")
		{
			students.GET("", studentController.List)
			students.GET("/:id", studentController.GetByID)
			students.POST("/:id/level", studentController.SelectLevel)
		}

		// --- Staff-only routes ---
		staff := authenticated.Group("")
		staff.Use(authMiddleware.StaffRequired())
		{
			staff.POST("/institutions", hierarchyController.CreateInstitution)
			staff.POST("/faculties", hierarchyController.CreateFaculty)
			staff.POST("/departments", hierarchyController.CreateDepartment)
			staff.POST("/programs", hierarchyController.CreateProgram)
			staff.POST("/levels", hierarchyController.CreateLevel)

			staff.POST("/students/:id/deactivate", studentController.Deactivate)
			staff.POST("/students/:id/reactivate", studentController.Reactivate)

			staff.POST("/matricules", matriculeController.Provision)
			staff.GET("/matricules/unused", matriculeController.ListUnused)

			notifications := staff.Group("/notifications")
			{
				notifications.POST("/recipients", notificationController.PreviewRecipients)
				notifications.POST("/send", notificationController.Send)
			}

			integration := staff.Group("/integration")
			{
				integration.GET("/email-validation", integrationController.ValidateEmails)
				integration.GET("/missing-data", integrationController.MissingData)
				integration.GET("/health", integrationController.Health)
				integration.POST("/readiness", integrationController.Readiness)
				integration.POST("/refresh", integrationController.RefreshCache)
			}
		}
	}
}
