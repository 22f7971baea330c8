package models

import "time"

// ApprovedMatricule is a pre-issued registration token. At most one student
// may ever consume a given matricule; once marked used it cannot be reused.
type ApprovedMatricule struct {
	ID            int64      `json:"id" db:"id"`
	Matricule     string     `json:"matricule" db:"matricule"`
	InstitutionID int64      `json:"institutionId" db:"institution_id"`
	FacultyID     int64      `json:"facultyId" db:"faculty_id"`
	DepartmentID  int64      `json:"departmentId" db:"department_id"`
	ProgramID     int64      `json:"programId" db:"program_id"`
	IsUsed        bool       `json:"isUsed" db:"is_used"`
	UsedAt        *time.Time `json:"usedAt,omitempty" db:"used_at"`
	UsedBy        *int64     `json:"usedBy,omitempty" db:"used_by"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}
