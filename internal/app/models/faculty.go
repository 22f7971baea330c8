package models

// Faculty represents a faculty inside an institution
type Faculty struct {
	ID            int64        `json:"id"`
	InstitutionID int64        `json:"institution_id"`
	Name          string       `json:"name"`
	Institution   *Institution `json:"institution,omitempty"`
}
