package models

// AcademicProgram represents a degree program offered by an institution
type AcademicProgram struct {
	ID            int64        `json:"id"`
	InstitutionID int64        `json:"institution_id"`
	Name          string       `json:"name"`
	Institution   *Institution `json:"institution,omitempty"`
}
