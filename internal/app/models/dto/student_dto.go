package dto

import "github.com/adeyemi/campuscore/internal/app/models"

// RegisterStudentRequest represents a student registration against an
// approved matricule
type RegisterStudentRequest struct {
	Matricule   string `json:"matricule" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	FaceConsent bool   `json:"faceConsent"`
}

// StudentResponse represents a student record with its account
type StudentResponse struct {
	ID           int64    `json:"id"`
	FullName     string   `json:"fullName"`
	MatricNumber string   `json:"matricNumber"`
	Email        string   `json:"email,omitempty"`
	DepartmentID *int64   `json:"departmentId,omitempty"`
	Department   string   `json:"department,omitempty"`
	Levels       []string `json:"levels,omitempty"`
	IsActive     bool     `json:"isActive"`
}

// NewStudentResponse maps a student model to its response shape
func NewStudentResponse(s *models.Student) StudentResponse {
	resp := StudentResponse{
		ID:           s.ID,
		FullName:     s.FullName,
		MatricNumber: s.MatricNumber,
		Email:        s.Email(),
		DepartmentID: s.DepartmentID,
		IsActive:     s.IsActive,
	}
	if s.Department != nil {
		resp.Department = s.Department.Name
	}
	for _, sel := range s.LevelSelections {
		if sel.Level != nil {
			resp.Levels = append(resp.Levels, sel.Level.Name)
		}
	}
	return resp
}

// NewStudentResponseList maps a student slice to response shapes
func NewStudentResponseList(students []*models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, NewStudentResponse(s))
	}
	return out
}

// SelectLevelRequest represents a level choice
type SelectLevelRequest struct {
	LevelID int64 `json:"levelId" binding:"required,min=1"`
}

// ProvisionMatriculeRequest represents an admin matricule approval
type ProvisionMatriculeRequest struct {
	Matricule     string `json:"matricule" binding:"required"`
	InstitutionID int64  `json:"institutionId" binding:"required,min=1"`
	FacultyID     int64  `json:"facultyId" binding:"required,min=1"`
	DepartmentID  int64  `json:"departmentId" binding:"required,min=1"`
	ProgramID     int64  `json:"programId" binding:"required,min=1"`
}
