package services

import (
	"math"

	"github.com/adeyemi/campuscore/internal/app/models"
)

// EmailValidationResult is the per-run container for a batch email
// classification. It is constructed fresh on every classification pass and
// never persisted. The three partitions plus the duplicate map account for
// every processed record: ValidCount + InvalidCount + MissingCount always
// equals TotalProcessed.
type EmailValidationResult struct {
	ValidStudents        []*models.Student
	InvalidEmailStudents []*models.Student
	MissingEmailStudents []*models.Student
	// DuplicateEmails maps a normalized address to every student sharing it.
	// Only addresses with more than one owner appear.
	DuplicateEmails  map[string][]*models.Student
	TotalProcessed   int
	ValidationErrors []string
}

// NewEmailValidationResult creates an empty result.
func NewEmailValidationResult() *EmailValidationResult {
	return &EmailValidationResult{
		DuplicateEmails: make(map[string][]*models.Student),
	}
}

// ValidCount returns the number of students with a valid address.
func (r *EmailValidationResult) ValidCount() int { return len(r.ValidStudents) }

// InvalidCount returns the number of students with an invalid address.
func (r *EmailValidationResult) InvalidCount() int { return len(r.InvalidEmailStudents) }

// MissingCount returns the number of students with no usable address.
func (r *EmailValidationResult) MissingCount() int { return len(r.MissingEmailStudents) }

// DuplicateCount counts surplus owners across all duplicate groups: a group
// of n students sharing one address contributes n-1.
func (r *EmailValidationResult) DuplicateCount() int {
	count := 0
	for _, students := range r.DuplicateEmails {
		if len(students) > 1 {
			count += len(students) - 1
		}
	}
	return count
}

// SuccessRate returns valid / total * 100, or 0 when nothing was processed.
func (r *EmailValidationResult) SuccessRate() float64 {
	if r.TotalProcessed == 0 {
		return 0.0
	}
	return float64(r.ValidCount()) / float64(r.TotalProcessed) * 100
}

// DuplicateStudentRef identifies one owner of a duplicated address.
type DuplicateStudentRef struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	MatricNumber string `json:"matric"`
}

// EmailValidationReport is the serializable summary of a validation run.
type EmailValidationReport struct {
	TotalProcessed   int                              `json:"total_processed"`
	ValidCount       int                              `json:"valid_count"`
	InvalidCount     int                              `json:"invalid_count"`
	MissingCount     int                              `json:"missing_count"`
	DuplicateCount   int                              `json:"duplicate_count"`
	SuccessRate      float64                          `json:"success_rate"`
	ValidationErrors []string                         `json:"validation_errors"`
	DuplicateEmails  map[string][]DuplicateStudentRef `json:"duplicate_emails"`
}

// Report converts the result into its serializable form. The success rate is
// rounded to two decimal places.
func (r *EmailValidationResult) Report() *EmailValidationReport {
	duplicates := make(map[string][]DuplicateStudentRef)
	for email, students := range r.DuplicateEmails {
		if len(students) < 2 {
			continue
		}
		refs := make([]DuplicateStudentRef, 0, len(students))
		for _, s := range students {
			refs = append(refs, DuplicateStudentRef{
				ID:           s.ID,
				Name:         s.FullName,
				MatricNumber: s.MatricNumber,
			})
		}
		duplicates[email] = refs
	}

	errs := r.ValidationErrors
	if errs == nil {
		errs = []string{}
	}

	return &EmailValidationReport{
		TotalProcessed:   r.TotalProcessed,
		ValidCount:       r.ValidCount(),
		InvalidCount:     r.InvalidCount(),
		MissingCount:     r.MissingCount(),
		DuplicateCount:   r.DuplicateCount(),
		SuccessRate:      math.Round(r.SuccessRate()*100) / 100,
		ValidationErrors: errs,
		DuplicateEmails:  duplicates,
	}
}
