package models

import "time"

// Student defines the student model based on the 'students' table.
//
// The matriculation number is immutable after creation. A student may lack a
// user-account link (orphaned record) or a department link (degraded record);
// both states are data the reporting layer classifies, never errors.
type Student struct {
	ID            int64     `json:"id" db:"id"`
	UserID        *int64    `json:"userId,omitempty" db:"user_id"`
	FullName      string    `json:"fullName" db:"full_name"`
	MatricNumber  string    `json:"matricNumber" db:"matric_number"`
	InstitutionID int64     `json:"institutionId" db:"institution_id"`
	FacultyID     int64     `json:"facultyId" db:"faculty_id"`
	DepartmentID  *int64    `json:"departmentId,omitempty" db:"department_id"`
	ProgramID     int64     `json:"programId" db:"program_id"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	IsApproved    bool      `json:"isApproved" db:"is_approved"`
	FaceConsent   bool      `json:"faceConsent" db:"face_consent"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated by the directory read model)
	User            *User            `json:"user,omitempty"`
	Institution     *Institution     `json:"institution,omitempty"`
	Faculty         *Faculty         `json:"faculty,omitempty"`
	Department      *Department      `json:"department,omitempty"`
	Program         *AcademicProgram `json:"program,omitempty"`
	LevelSelections []LevelSelection `json:"levelSelections,omitempty"`
}

// Email returns the student's account email, or the empty string when the
// record has no user account.
func (s *Student) Email() string {
	if s.User == nil {
		return ""
	}
	return s.User.Email
}

// HasLevelSelection reports whether the student has chosen at least one level.
func (s *Student) HasLevelSelection() bool {
	return len(s.LevelSelections) > 0
}
