package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adeyemi/campuscore/internal/app/models/dto"
	"github.com/adeyemi/campuscore/internal/app/services"
	"github.com/adeyemi/campuscore/internal/middleware"
)

// IntegrationController exposes the student data reporting surface
type IntegrationController struct {
	integrationService *services.IntegrationService
}

// NewIntegrationController creates a new IntegrationController
func NewIntegrationController(integrationService *services.IntegrationService) *IntegrationController {
	return &IntegrationController{integrationService: integrationService}
}

// ValidateEmails classifies the active population's addresses
// @Summary Validate student emails
// @Description Partitions all active students by email usability
// @Tags integration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Classification summary"
// @Failure 502 {object} dto.ErrorResponse "Student data integration failed"
// @Router /integration/email-validation [get]
func (c *IntegrationController) ValidateEmails(ctx *gin.Context) {
	result, err := c.integrationService.ClassifyEmails(ctx, nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result.Report(), ""))
}

// MissingData surveys records with incomplete data
// @Summary Report missing student data
// @Description Groups students by the kind of data their records lack
// @Tags integration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Missing data categories"
// @Failure 502 {object} dto.ErrorResponse "Student data integration failed"
// @Router /integration/missing-data [get]
func (c *IntegrationController) MissingData(ctx *gin.Context) {
	report, err := c.integrationService.FindMissingData(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(report.Counts(), ""))
}

// Health produces the aggregate data-quality snapshot
// @Summary Student data health report
// @Description Combines counts, email classification, missing-data survey and coverage into one status
// @Tags integration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Health report"
// @Failure 502 {object} dto.ErrorResponse "Student data integration failed"
// @Router /integration/health [get]
func (c *IntegrationController) Health(ctx *gin.Context) {
	report, err := c.integrationService.HealthReport(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(report, ""))
}

// Readiness scores a planned send against a recipient configuration
// @Summary Assess delivery readiness
// @Description Scores whether a bulk send against this configuration can proceed
// @Tags integration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RecipientConfigRequest true "Recipient configuration"
// @Success 200 {object} dto.APIResponse "Readiness report"
// @Failure 400 {object} dto.ErrorResponse "Invalid recipient configuration"
// @Failure 502 {object} dto.ErrorResponse "Student data integration failed"
// @Router /integration/readiness [post]
func (c *IntegrationController) Readiness(ctx *gin.Context) {
	var req dto.RecipientConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	report, err := c.integrationService.DeliveryReadiness(ctx, recipientConfig(req))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(report, ""))
}

// RefreshCache invalidates and reloads cached student data
// @Summary Refresh the student cache
// @Description Drops cached directory reads and reloads them from the store
// @Tags integration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RefreshCacheRequest false "Optional student selection"
// @Success 200 {object} dto.APIResponse "Refresh outcome"
// @Failure 502 {object} dto.ErrorResponse "Student data integration failed"
// @Router /integration/refresh [post]
func (c *IntegrationController) RefreshCache(ctx *gin.Context) {
	var req dto.RefreshCacheRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			bindError(ctx, err)
			return
		}
	}

	result, err := c.integrationService.RefreshCache(ctx, req.StudentIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result, "Student cache refreshed"))
}
