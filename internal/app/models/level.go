package models

import "time"

// Level represents an academic level within a department, e.g. "100 Level"
type Level struct {
	ID           int64       `json:"id"`
	DepartmentID int64       `json:"department_id"`
	Name         string      `json:"name" example:"100 Level"`
	Code         int         `json:"code" example:"100"`
	IsActive     bool        `json:"is_active"`
	Department   *Department `json:"department,omitempty"`
}

// LevelSelection records a level chosen by a student
type LevelSelection struct {
	ID         int64     `json:"id"`
	StudentID  int64     `json:"student_id"`
	LevelID    int64     `json:"level_id"`
	SelectedAt time.Time `json:"selected_at"`
	Level      *Level    `json:"level,omitempty"`
}
