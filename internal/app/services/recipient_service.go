package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adeyemi/campuscore/internal/app/models"
	"github.com/adeyemi/campuscore/internal/app/repositories"
	"github.com/adeyemi/campuscore/internal/pkg/apperrors"
	"github.com/adeyemi/campuscore/internal/pkg/emailaddr"
)

// SelectionType names a recipient-selection strategy.
type SelectionType string

const (
	SelectAll        SelectionType = "all"
	SelectDepartment SelectionType = "department"
	SelectLevel      SelectionType = "level"
	SelectSpecific   SelectionType = "specific"
	SelectCustom     SelectionType = "custom"
)

// RecipientConfig describes which students should receive a notification.
// Exactly the parameters required by Type must be supplied.
type RecipientConfig struct {
	Type          SelectionType `json:"type" binding:"required"`
	DepartmentIDs []int64       `json:"departmentIds,omitempty"`
	Levels        []string      `json:"levels,omitempty"`
	DepartmentID  *int64        `json:"departmentId,omitempty"` // optional scoping for level selection
	StudentIDs    []int64       `json:"studentIds,omitempty"`
	Emails        []string      `json:"emails,omitempty"`
}

// RecipientMetadata echoes the selection back for audit and logging.
type RecipientMetadata struct {
	Type           SelectionType `json:"type"`
	Sources        []string      `json:"sources"`
	TotalCount     int           `json:"total_count"`
	DuplicateCount int           `json:"duplicate_count"`
	DepartmentIDs  []int64       `json:"department_ids,omitempty"`
	Levels         []string      `json:"levels,omitempty"`
	DepartmentID   *int64        `json:"department_id,omitempty"`
	StudentIDs     []int64       `json:"student_ids,omitempty"`
	SkippedEmails  []string      `json:"skipped_emails,omitempty"`
}

// RecipientService resolves recipient configurations into concrete,
// deduplicated lists of deliverable addresses.
//
// Every directory-backed strategy, including "specific", keeps only active
// students whose account carries a non-blank email; the "custom" strategy
// never consults the directory at all.
type RecipientService struct {
	directory StudentDirectory
	logger    zerolog.Logger
}

// NewRecipientService creates a new recipient service.
func NewRecipientService(directory StudentDirectory, logger zerolog.Logger) *RecipientService {
	return &RecipientService{directory: directory, logger: logger}
}

// configError wraps a structural configuration problem.
func configError(format string, args ...interface{}) error {
	return apperrors.NewCustomError(apperrors.ErrRecipientConfig, fmt.Sprintf(format, args...))
}

// Validate checks that the configuration carries the parameters its type
// requires. A structurally invalid configuration never reaches the directory.
func (c *RecipientConfig) Validate() error {
	switch c.Type {
	case SelectAll:
		return nil
	case SelectDepartment:
		if len(c.DepartmentIDs) == 0 {
			return configError("department ids are required for department-based recipient selection")
		}
	case SelectLevel:
		if len(c.Levels) == 0 {
			return configError("levels are required for level-based recipient selection")
		}
	case SelectSpecific:
		if len(c.StudentIDs) == 0 {
			return configError("student ids are required for specific student selection")
		}
	case SelectCustom:
		if len(c.Emails) == 0 {
			return configError("email addresses are required for custom recipient selection")
		}
	default:
		return configError("invalid recipient type: %q, must be one of: all, department, level, specific, custom", c.Type)
	}
	return nil
}

// SelectStudents returns the student records behind a directory-backed
// configuration: active students with a present email, narrowed by the
// strategy's filter. The custom strategy selects no students.
func (s *RecipientService) SelectStudents(ctx context.Context, config RecipientConfig) ([]*models.Student, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	filter := repositories.StudentFilter{
		Active:       boolPtr(true),
		RequireEmail: true,
	}

	switch config.Type {
	case SelectAll:
		// no additional narrowing
	case SelectDepartment:
		filter.DepartmentIDs = config.DepartmentIDs
	case SelectLevel:
		filter.Levels = config.Levels
		filter.LevelDepartmentID = config.DepartmentID
	case SelectSpecific:
		filter.IDs = config.StudentIDs
	case SelectCustom:
		return nil, nil
	}

	students, err := s.directory.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrIntegration,
			fmt.Sprintf("failed to retrieve students for %s selection: %v", config.Type, err))
	}

	return students, nil
}

// BuildRecipientList resolves a configuration into an ordered list of unique
// email addresses plus selection metadata. Deduplication is case-insensitive
// and order-preserving; an empty result is not an error.
func (s *RecipientService) BuildRecipientList(ctx context.Context, config RecipientConfig) ([]string, *RecipientMetadata, error) {
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	metadata := &RecipientMetadata{
		Type:          config.Type,
		DepartmentIDs: config.DepartmentIDs,
		Levels:        config.Levels,
		DepartmentID:  config.DepartmentID,
		StudentIDs:    config.StudentIDs,
	}

	var raw []string

	if config.Type == SelectCustom {
		var skipped []string
		for _, addr := range config.Emails {
			if emailaddr.LooksDeliverable(addr) {
				raw = append(raw, emailaddr.Normalize(addr))
			} else {
				skipped = append(skipped, addr)
			}
		}
		metadata.SkippedEmails = skipped
	} else {
		students, err := s.SelectStudents(ctx, config)
		if err != nil {
			return nil, nil, err
		}
		for _, student := range students {
			if email := student.Email(); strings.TrimSpace(email) != "" {
				raw = append(raw, emailaddr.Normalize(email))
			}
		}
	}

	unique := dedupe(raw)

	metadata.TotalCount = len(unique)
	metadata.DuplicateCount = len(raw) - len(unique)
	metadata.Sources = append(metadata.Sources, sourceLine(config, len(unique)))

	s.logger.Debug().
		Str("type", string(config.Type)).
		Int("recipients", len(unique)).
		Int("duplicates", metadata.DuplicateCount).
		Msg("Recipient list resolved")

	return unique, metadata, nil
}

// dedupe removes case-insensitive duplicates while preserving first-seen
// order. Inputs are already normalized.
func dedupe(emails []string) []string {
	unique := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		unique = append(unique, email)
	}
	return unique
}

func sourceLine(config RecipientConfig, count int) string {
	switch config.Type {
	case SelectAll:
		return fmt.Sprintf("All students (%d recipients)", count)
	case SelectDepartment:
		return fmt.Sprintf("Departments %v (%d recipients)", config.DepartmentIDs, count)
	case SelectLevel:
		return fmt.Sprintf("Levels %s (%d recipients)", strings.Join(config.Levels, ", "), count)
	case SelectSpecific:
		return fmt.Sprintf("Specific students (%d recipients)", count)
	case SelectCustom:
		return fmt.Sprintf("Custom addresses (%d recipients)", count)
	}
	return ""
}
