package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adeyemi/campuscore/internal/app/models/dto"
	"github.com/adeyemi/campuscore/internal/app/services"
	"github.com/adeyemi/campuscore/internal/middleware"
)

// NotificationController handles recipient resolution and bulk sends
type NotificationController struct {
	notificationService *services.NotificationService
	recipientService    *services.RecipientService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(
	notificationService *services.NotificationService,
	recipientService *services.RecipientService,
) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		recipientService:    recipientService,
	}
}

// recipientConfig maps the request shape onto the service configuration.
func recipientConfig(req dto.RecipientConfigRequest) services.RecipientConfig {
	return services.RecipientConfig{
		Type:          services.SelectionType(req.Type),
		DepartmentIDs: req.DepartmentIDs,
		Levels:        req.Levels,
		DepartmentID:  req.DepartmentID,
		StudentIDs:    req.StudentIDs,
		Emails:        req.Emails,
	}
}

// PreviewRecipients resolves a configuration without sending anything
// @Summary Preview recipients
// @Description Resolves a recipient configuration into a deduplicated address list
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RecipientConfigRequest true "Recipient configuration"
// @Success 200 {object} dto.APIResponse "Recipients resolved"
// @Failure 400 {object} dto.ErrorResponse "Invalid recipient configuration"
// @Failure 502 {object} dto.ErrorResponse "Student data integration failed"
// @Router /notifications/recipients [post]
func (c *NotificationController) PreviewRecipients(ctx *gin.Context) {
	var req dto.RecipientConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	recipients, metadata, err := c.recipientService.BuildRecipientList(ctx, recipientConfig(req))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{
		"recipients": recipients,
		"metadata":   metadata,
	}, ""))
}

// Send delivers a notification to the resolved recipients
// @Summary Send a notification
// @Description Resolves the recipients and delivers the message to each address
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendNotificationRequest true "Notification to send"
// @Success 200 {object} dto.APIResponse "Batch outcome"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 502 {object} dto.ErrorResponse "Student data integration failed"
// @Router /notifications/send [post]
func (c *NotificationController) Send(ctx *gin.Context) {
	var req dto.SendNotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	batch, err := c.notificationService.Send(ctx, services.SendNotificationInput{
		Recipients: recipientConfig(req.Recipients),
		Subject:    req.Subject,
		Body:       req.Body,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(batch, "Notification batch sent"))
}
