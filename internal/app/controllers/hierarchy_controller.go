package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adeyemi/campuscore/internal/app/models/dto"
	"github.com/adeyemi/campuscore/internal/app/services"
	"github.com/adeyemi/campuscore/internal/middleware"
)

// HierarchyController handles the academic reference data endpoints
type HierarchyController struct {
	hierarchyService *services.HierarchyService
}

// NewHierarchyController creates a new HierarchyController
func NewHierarchyController(hierarchyService *services.HierarchyService) *HierarchyController {
	return &HierarchyController{hierarchyService: hierarchyService}
}

// CreateInstitution handles institution creation
// @Summary Create an institution
// @Tags hierarchy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateInstitutionRequest true "Institution information"
// @Success 201 {object} dto.APIResponse{data=models.Institution} "Institution created"
// @Router /institutions [post]
func (c *HierarchyController) CreateInstitution(ctx *gin.Context) {
	var req dto.CreateInstitutionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	institution, err := c.hierarchyService.CreateInstitution(ctx, req.Name, req.Code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(institution, "Institution created"))
}

// ListInstitutions returns all institutions
// @Summary List institutions
// @Tags hierarchy
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Institution} "Institutions retrieved"
// @Router /institutions [get]
func (c *HierarchyController) ListInstitutions(ctx *gin.Context) {
	institutions, err := c.hierarchyService.ListInstitutions(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(institutions, ""))
}

// CreateFaculty handles faculty creation
// @Summary Create a faculty
// @Tags hierarchy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFacultyRequest true "Faculty information"
// @Success 201 {object} dto.APIResponse{data=models.Faculty} "Faculty created"
// @Failure 404 {object} dto.ErrorResponse "Institution not found"
// @Failure 409 {object} dto.ErrorResponse "Faculty already exists"
// @Router /faculties [post]
func (c *HierarchyController) CreateFaculty(ctx *gin.Context) {
	var req dto.CreateFacultyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	faculty, err := c.hierarchyService.CreateFaculty(ctx, req.InstitutionID, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(faculty, "Faculty created"))
}

// ListFaculties returns the faculties of an institution
// @Summary List faculties
// @Tags hierarchy
// @Produce json
// @Param institutionId query int true "Institution ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Faculty} "Faculties retrieved"
// @Router /faculties [get]
func (c *HierarchyController) ListFaculties(ctx *gin.Context) {
	institutionID, err := strconv.ParseInt(ctx.Query("institutionId"), 10, 64)
	if err != nil || institutionID < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid institutionId parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	faculties, err := c.hierarchyService.ListFaculties(ctx, institutionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(faculties, ""))
}

// CreateDepartment handles department creation
// @Summary Create a department
// @Tags hierarchy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDepartmentRequest true "Department information"
// @Success 201 {object} dto.APIResponse{data=models.Department} "Department created"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Failure 409 {object} dto.ErrorResponse "Department already exists"
// @Router /departments [post]
func (c *HierarchyController) CreateDepartment(ctx *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	department, err := c.hierarchyService.CreateDepartment(ctx, req.FacultyID, req.Name, req.Code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(department, "Department created"))
}

// ListDepartments returns departments, optionally scoped to a faculty
// @Summary List departments
// @Tags hierarchy
// @Produce json
// @Param facultyId query int false "Faculty ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Department} "Departments retrieved"
// @Router /departments [get]
func (c *HierarchyController) ListDepartments(ctx *gin.Context) {
	var facultyID int64
	if raw := ctx.Query("facultyId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid facultyId parameter")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		facultyID = parsed
	}

	departments, err := c.hierarchyService.ListDepartments(ctx, facultyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(departments, ""))
}

// CreateProgram handles academic program creation
// @Summary Create an academic program
// @Tags hierarchy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProgramRequest true "Program information"
// @Success 201 {object} dto.APIResponse{data=models.AcademicProgram} "Program created"
// @Failure 404 {object} dto.ErrorResponse "Institution not found"
// @Router /programs [post]
func (c *HierarchyController) CreateProgram(ctx *gin.Context) {
	var req dto.CreateProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	program, err := c.hierarchyService.CreateProgram(ctx, req.InstitutionID, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(program, "Program created"))
}

// CreateLevel handles level creation
// @Summary Create a level
// @Tags hierarchy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLevelRequest true "Level information"
// @Success 201 {object} dto.APIResponse{data=models.Level} "Level created"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /levels [post]
func (c *HierarchyController) CreateLevel(ctx *gin.Context) {
	var req dto.CreateLevelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	level, err := c.hierarchyService.CreateLevel(ctx, req.DepartmentID, req.Name, req.Code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(level, "Level created"))
}

// ListLevels returns the levels of a department
// @Summary List levels
// @Tags hierarchy
// @Produce json
// @Param departmentId query int true "Department ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Level} "Levels retrieved"
// @Router /levels [get]
func (c *HierarchyController) ListLevels(ctx *gin.Context) {
	departmentID, err := strconv.ParseInt(ctx.Query("departmentId"), 10, 64)
	if err != nil || departmentID < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid departmentId parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	levels, err := c.hierarchyService.ListLevels(ctx, departmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(levels, ""))
}

// bindError writes the standard response for a malformed request body.
func bindError(ctx *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
	errorDetail = errorDetail.WithDetails(err.Error())
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
