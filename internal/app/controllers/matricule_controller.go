package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adeyemi/campuscore/internal/app/models/dto"
	"github.com/adeyemi/campuscore/internal/app/services"
	"github.com/adeyemi/campuscore/internal/middleware"
)

// MatriculeController handles approved-matricule administration
type MatriculeController struct {
	matriculeService *services.MatriculeService
}

// NewMatriculeController creates a new MatriculeController
func NewMatriculeController(matriculeService *services.MatriculeService) *MatriculeController {
	return &MatriculeController{matriculeService: matriculeService}
}

// Provision places a matricule on the approved list
// @Summary Provision a matricule
// @Description Approves a matricule for later student registration
// @Tags matricules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProvisionMatriculeRequest true "Matricule information"
// @Success 201 {object} dto.APIResponse{data=models.ApprovedMatricule} "Matricule provisioned"
// @Failure 400 {object} dto.ErrorResponse "Inconsistent hierarchy"
// @Failure 409 {object} dto.ErrorResponse "Matricule already provisioned"
// @Router /matricules [post]
func (c *MatriculeController) Provision(ctx *gin.Context) {
	var req dto.ProvisionMatriculeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	approved, err := c.matriculeService.Provision(ctx, services.ProvisionInput{
		Matricule:     req.Matricule,
		InstitutionID: req.InstitutionID,
		FacultyID:     req.FacultyID,
		DepartmentID:  req.DepartmentID,
		ProgramID:     req.ProgramID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(approved, "Matricule provisioned"))
}

// ListUnused returns matricules still awaiting registration
// @Summary List unused matricules
// @Tags matricules
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ApprovedMatricule} "Matricules retrieved"
// @Router /matricules/unused [get]
func (c *MatriculeController) ListUnused(ctx *gin.Context) {
	matricules, err := c.matriculeService.ListUnused(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(matricules, ""))
}
