package dto

// CreateInstitutionRequest represents a new institution
type CreateInstitutionRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code"`
}

// CreateFacultyRequest represents a new faculty
type CreateFacultyRequest struct {
	InstitutionID int64  `json:"institutionId" binding:"required,min=1"`
	Name          string `json:"name" binding:"required"`
}

// CreateDepartmentRequest represents a new department
type CreateDepartmentRequest struct {
	FacultyID int64  `json:"facultyId" binding:"required,min=1"`
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code"`
}

// CreateProgramRequest represents a new academic program
type CreateProgramRequest struct {
	InstitutionID int64  `json:"institutionId" binding:"required,min=1"`
	Name          string `json:"name" binding:"required"`
}

// CreateLevelRequest represents a new academic level
type CreateLevelRequest struct {
	DepartmentID int64  `json:"departmentId" binding:"required,min=1"`
	Name         string `json:"name" binding:"required"`
	Code         int    `json:"code" binding:"required,min=1"`
}
