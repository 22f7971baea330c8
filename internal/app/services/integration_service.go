package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/adeyemi/campuscore/internal/app/models"
	"github.com/adeyemi/campuscore/internal/app/repositories"
	"github.com/adeyemi/campuscore/internal/cache"
	"github.com/adeyemi/campuscore/internal/pkg/apperrors"
	"github.com/adeyemi/campuscore/internal/pkg/emailaddr"
)

// DefaultStudentCacheTTL bounds how long a cached directory read is served
// before the store is consulted again.
const DefaultStudentCacheTTL = 5 * time.Minute

// Missing-data category identifiers. Categories are independent: one student
// may appear under several of them.
const (
	CategoryNoUserAccount    = "no_user_account"
	CategoryNoEmail          = "no_email"
	CategoryInvalidEmail     = "invalid_email"
	CategoryNoDepartment     = "no_department"
	CategoryNoLevelSelection = "no_level_selection"
	CategoryInactiveStudents = "inactive_students"
)

// missingDataCategories fixes the reporting order of the categories.
var missingDataCategories = []string{
	CategoryNoUserAccount,
	CategoryNoEmail,
	CategoryInvalidEmail,
	CategoryNoDepartment,
	CategoryNoLevelSelection,
	CategoryInactiveStudents,
}

// IntegrationService is the read-side bridge between the student directory
// and the notification layer. It fetches student populations through a cache,
// classifies their contact data and produces health and delivery-readiness
// reports. All of its operations are pure reads: nothing here mutates the
// directory.
type IntegrationService struct {
	directory StudentDirectory
	resolver  *RecipientService
	cache     cache.Cache
	ttl       time.Duration
	logger    zerolog.Logger
}

// NewIntegrationService creates a new integration service. A non-positive ttl
// falls back to DefaultStudentCacheTTL.
func NewIntegrationService(directory StudentDirectory, resolver *RecipientService, c cache.Cache, ttl time.Duration, logger zerolog.Logger) *IntegrationService {
	if ttl <= 0 {
		ttl = DefaultStudentCacheTTL
	}
	return &IntegrationService{
		directory: directory,
		resolver:  resolver,
		cache:     c,
		ttl:       ttl,
		logger:    logger,
	}
}

func integrationError(format string, args ...interface{}) error {
	return apperrors.NewCustomError(apperrors.ErrIntegration, fmt.Sprintf(format, args...))
}

// FetchStudents returns a student population, serving from the cache when a
// fresh entry exists. An empty id set addresses all active students; a
// non-empty set addresses exactly those records regardless of activation
// state. Cache failures degrade to a direct directory read.
func (s *IntegrationService) FetchStudents(ctx context.Context, ids []int64, forceRefresh bool) ([]*models.Student, error) {
	key := cache.StudentDataKey(ids)

	if !forceRefresh {
		if payload, err := s.cache.Get(ctx, key); err == nil {
			var students []*models.Student
			if err := json.Unmarshal(payload, &students); err == nil {
				s.logger.Debug().Str("key", key).Int("count", len(students)).Msg("Student data served from cache")
				return students, nil
			}
			s.logger.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, falling back to directory")
		}
	}

	filter := repositories.StudentFilter{}
	if len(ids) == 0 {
		filter.Active = boolPtr(true)
	} else {
		filter.IDs = ids
	}

	students, err := s.directory.List(ctx, filter)
	if err != nil {
		return nil, integrationError("failed to fetch student data: %v", err)
	}

	if payload, err := json.Marshal(students); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}

	s.logger.Debug().Str("key", key).Int("count", len(students)).Msg("Student data fetched from directory")
	return students, nil
}

// ClassifyEmails partitions a student population by email usability. A nil
// population classifies all active students. Every record lands in exactly
// one partition; duplicate detection covers valid addresses only, so the
// partitions always sum to TotalProcessed.
func (s *IntegrationService) ClassifyEmails(ctx context.Context, students []*models.Student) (*EmailValidationResult, error) {
	if students == nil {
		fetched, err := s.FetchStudents(ctx, nil, false)
		if err != nil {
			return nil, err
		}
		students = fetched
	}

	result := NewEmailValidationResult()
	result.TotalProcessed = len(students)

	owners := make(map[string][]*models.Student)

	for _, student := range students {
		email := student.Email()
		switch emailaddr.Classify(email) {
		case emailaddr.Valid:
			result.ValidStudents = append(result.ValidStudents, student)
			normalized := emailaddr.Normalize(email)
			owners[normalized] = append(owners[normalized], student)
		case emailaddr.Invalid:
			result.InvalidEmailStudents = append(result.InvalidEmailStudents, student)
		default:
			result.MissingEmailStudents = append(result.MissingEmailStudents, student)
		}
	}

	for email, group := range owners {
		if len(group) > 1 {
			result.DuplicateEmails[email] = group
		}
	}

	s.logger.Debug().
		Int("total", result.TotalProcessed).
		Int("valid", result.ValidCount()).
		Int("invalid", result.InvalidCount()).
		Int("missing", result.MissingCount()).
		Int("duplicates", result.DuplicateCount()).
		Msg("Email classification finished")

	return result, nil
}

// MissingDataReport groups active students by the kind of data they lack,
// plus the currently deactivated records. Categories overlap by design of the
// underlying data: a record with no account has neither email nor anything
// else tied to one.
type MissingDataReport struct {
	NoUserAccount    []*models.Student
	NoEmail          []*models.Student
	InvalidEmail     []*models.Student
	NoDepartment     []*models.Student
	NoLevelSelection []*models.Student
	InactiveStudents []*models.Student
}

// Counts returns the per-category totals keyed by category identifier.
func (r *MissingDataReport) Counts() map[string]int {
	return map[string]int{
		CategoryNoUserAccount:    len(r.NoUserAccount),
		CategoryNoEmail:          len(r.NoEmail),
		CategoryInvalidEmail:     len(r.InvalidEmail),
		CategoryNoDepartment:     len(r.NoDepartment),
		CategoryNoLevelSelection: len(r.NoLevelSelection),
		CategoryInactiveStudents: len(r.InactiveStudents),
	}
}

// TotalIssues sums the category totals. Overlapping records count once per
// category they fall into.
func (r *MissingDataReport) TotalIssues() int {
	total := 0
	for _, n := range r.Counts() {
		total += n
	}
	return total
}

// FindMissingData surveys the directory for records with gaps in their
// contact or structural data.
func (s *IntegrationService) FindMissingData(ctx context.Context) (*MissingDataReport, error) {
	active, err := s.FetchStudents(ctx, nil, false)
	if err != nil {
		return nil, err
	}

	inactive, err := s.directory.List(ctx, repositories.StudentFilter{Active: boolPtr(false)})
	if err != nil {
		return nil, integrationError("failed to fetch deactivated students: %v", err)
	}

	report := &MissingDataReport{InactiveStudents: inactive}

	for _, student := range active {
		if student.User == nil {
			report.NoUserAccount = append(report.NoUserAccount, student)
		}

		switch emailaddr.Classify(student.Email()) {
		case emailaddr.Missing:
			if student.User != nil {
				report.NoEmail = append(report.NoEmail, student)
			}
		case emailaddr.Invalid:
			report.InvalidEmail = append(report.InvalidEmail, student)
		}

		if student.DepartmentID == nil {
			report.NoDepartment = append(report.NoDepartment, student)
		}
		if !student.HasLevelSelection() {
			report.NoLevelSelection = append(report.NoLevelSelection, student)
		}
	}

	return report, nil
}

// DataHealthReport is the aggregate data-quality snapshot.
type DataHealthReport struct {
	GeneratedAt        time.Time              `json:"generated_at"`
	TotalStudents      int64                  `json:"total_students"`
	ActiveStudents     int64                  `json:"active_students"`
	EmailValidation    *EmailValidationReport `json:"email_validation"`
	MissingData        map[string]int         `json:"missing_data"`
	MissingDataRate    float64                `json:"missing_data_rate"`
	DepartmentCoverage float64                `json:"department_coverage"`
	LevelCoverage      float64                `json:"level_coverage"`
	Status             string                 `json:"status"`
	Issues             []string               `json:"issues"`
	Recommendations    []string               `json:"recommendations"`
}

// HealthReport assembles the full data-quality snapshot: population counts,
// email classification, missing-data survey, structural coverage and an
// overall status band with actionable findings.
func (s *IntegrationService) HealthReport(ctx context.Context) (*DataHealthReport, error) {
	counts, err := s.directory.Counts(ctx)
	if err != nil {
		return nil, integrationError("failed to count students: %v", err)
	}

	validation, err := s.ClassifyEmails(ctx, nil)
	if err != nil {
		return nil, err
	}

	missing, err := s.FindMissingData(ctx)
	if err != nil {
		return nil, err
	}

	deptUtil, err := s.directory.DepartmentUtilization(ctx)
	if err != nil {
		return nil, integrationError("failed to measure department utilization: %v", err)
	}
	levelUtil, err := s.directory.LevelUtilization(ctx)
	if err != nil {
		return nil, integrationError("failed to measure level utilization: %v", err)
	}

	missingRate := 100.0
	if counts.Active > 0 {
		missingRate = float64(missing.TotalIssues()) / float64(counts.Active) * 100
	}

	report := &DataHealthReport{
		GeneratedAt:        time.Now().UTC(),
		TotalStudents:      counts.Total,
		ActiveStudents:     counts.Active,
		EmailValidation:    validation.Report(),
		MissingData:        missing.Counts(),
		MissingDataRate:    round2(missingRate),
		DepartmentCoverage: round2(coverageRate(deptUtil)),
		LevelCoverage:      round2(coverageRate(levelUtil)),
		Status:             healthStatus(validation.SuccessRate(), missingRate),
		Issues:             []string{},
		Recommendations:    []string{},
	}

	report.Issues, report.Recommendations = healthFindings(validation, missing)

	s.logger.Info().
		Str("status", report.Status).
		Int64("active", counts.Active).
		Float64("success_rate", report.EmailValidation.SuccessRate).
		Msg("Data health report generated")

	return report, nil
}

// healthStatus bands the snapshot by email success rate and missing-data
// rate, first match wins.
func healthStatus(successRate, missingRate float64) string {
	switch {
	case successRate >= 95 && missingRate <= 5:
		return "excellent"
	case successRate >= 90 && missingRate <= 10:
		return "good"
	case successRate >= 80 && missingRate <= 20:
		return "fair"
	default:
		return "poor"
	}
}

// healthFindings derives one issue and one recommendation per nonzero
// condition, email classification first, then the missing-data categories in
// their fixed order.
func healthFindings(validation *EmailValidationResult, missing *MissingDataReport) ([]string, []string) {
	issues := []string{}
	recommendations := []string{}

	add := func(count int, issue, recommendation string) {
		if count > 0 {
			issues = append(issues, fmt.Sprintf(issue, count))
			recommendations = append(recommendations, recommendation)
		}
	}

	add(validation.MissingCount(),
		"%d students have no email address",
		"Collect email addresses for students currently without one")
	add(validation.InvalidCount(),
		"%d students have an invalid email address",
		"Correct malformed email addresses before the next delivery")
	add(validation.DuplicateCount(),
		"%d students share an email address with another student",
		"Resolve shared email addresses so each student is reachable individually")

	counts := missing.Counts()
	descriptions := map[string][2]string{
		CategoryNoUserAccount:    {"%d students have no linked user account", "Link orphaned student records to user accounts"},
		CategoryNoEmail:          {"%d student accounts carry no email", "Fill in the missing account email addresses"},
		CategoryInvalidEmail:     {"%d student accounts carry a malformed email", "Fix the malformed account email addresses"},
		CategoryNoDepartment:     {"%d students have no department assignment", "Assign the unplaced students to departments"},
		CategoryNoLevelSelection: {"%d students have not selected a level", "Prompt students to complete their level selection"},
		CategoryInactiveStudents: {"%d student records are deactivated", "Review deactivated records and reactivate or archive them"},
	}
	for _, category := range missingDataCategories {
		text := descriptions[category]
		add(counts[category], text[0], text[1])
	}

	return issues, recommendations
}

func coverageRate(u repositories.UtilizationCounts) float64 {
	if u.Total == 0 {
		return 0
	}
	return float64(u.WithStudents) / float64(u.Total) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DeliveryReadinessReport scores whether a planned notification send can
// proceed against a concrete recipient configuration.
type DeliveryReadinessReport struct {
	GeneratedAt     time.Time              `json:"generated_at"`
	RecipientCount  int                    `json:"recipient_count"`
	Metadata        *RecipientMetadata     `json:"metadata"`
	EmailValidation *EmailValidationReport `json:"email_validation"`
	Score           int                    `json:"score"`
	Status          string                 `json:"status"`
	Factors         []string               `json:"factors"`
	Recommendations []string               `json:"recommendations"`
}

// DeliveryReadiness resolves the configuration into recipients, classifies
// the selected population's addresses and scores the send out of 100.
func (s *IntegrationService) DeliveryReadiness(ctx context.Context, config RecipientConfig) (*DeliveryReadinessReport, error) {
	recipients, metadata, err := s.resolver.BuildRecipientList(ctx, config)
	if err != nil {
		return nil, err
	}

	var students []*models.Student
	switch config.Type {
	case SelectAll:
		students, err = s.FetchStudents(ctx, nil, false)
	case SelectCustom:
		students = []*models.Student{}
	default:
		students, err = s.resolver.SelectStudents(ctx, config)
	}
	if err != nil {
		return nil, err
	}
	if students == nil {
		// ClassifyEmails treats nil as "all active students"; an empty
		// selection must stay empty.
		students = []*models.Student{}
	}

	validation, err := s.ClassifyEmails(ctx, students)
	if err != nil {
		return nil, err
	}

	score, factors, recommendations := readinessScore(len(recipients), validation)

	report := &DeliveryReadinessReport{
		GeneratedAt:     time.Now().UTC(),
		RecipientCount:  len(recipients),
		Metadata:        metadata,
		EmailValidation: validation.Report(),
		Score:           score,
		Status:          readinessStatus(score),
		Factors:         factors,
		Recommendations: recommendations,
	}

	s.logger.Info().
		Str("type", string(config.Type)).
		Int("recipients", len(recipients)).
		Int("score", score).
		Str("status", report.Status).
		Msg("Delivery readiness assessed")

	return report, nil
}

// readinessScore awards up to 100 points: 40 for having recipients, up to 30
// for the email success rate, 15 for no duplicates and 15 for no missing
// addresses.
func readinessScore(recipientCount int, validation *EmailValidationResult) (int, []string, []string) {
	score := 0
	factors := []string{}
	recommendations := []string{}

	if recipientCount > 0 {
		score += 40
		factors = append(factors, fmt.Sprintf("✓ Recipients selected: %d", recipientCount))
	} else {
		factors = append(factors, "✗ No recipients selected")
		recommendations = append(recommendations, "Adjust the recipient configuration so it matches at least one address")
	}

	successRate := validation.SuccessRate()
	switch {
	case successRate >= 95:
		score += 30
		factors = append(factors, fmt.Sprintf("✓ Email success rate: %.1f%%", successRate))
	case successRate >= 80:
		score += 20
		factors = append(factors, fmt.Sprintf("⚠ Email success rate: %.1f%%", successRate))
		recommendations = append(recommendations, "Improve email data quality before large sends")
	default:
		factors = append(factors, fmt.Sprintf("✗ Email success rate: %.1f%%", successRate))
		recommendations = append(recommendations, "Email data quality is too low, clean up addresses first")
	}

	if dup := validation.DuplicateCount(); dup == 0 {
		score += 15
		factors = append(factors, "✓ No duplicate email addresses")
	} else {
		factors = append(factors, fmt.Sprintf("⚠ %d duplicate email addresses", dup))
		recommendations = append(recommendations, "Resolve duplicate email addresses between students")
	}

	if missing := validation.MissingCount(); missing == 0 {
		score += 15
		factors = append(factors, "✓ No students with missing email")
	} else {
		factors = append(factors, fmt.Sprintf("⚠ %d students with missing email", missing))
		recommendations = append(recommendations, "Collect the missing email addresses")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Email delivery is ready to proceed")
	}

	return score, factors, recommendations
}

func readinessStatus(score int) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 75:
		return "good"
	case score >= 60:
		return "fair"
	default:
		return "poor"
	}
}

// RefreshResult reports a cache refresh.
type RefreshResult struct {
	RefreshedAt  time.Time `json:"refreshed_at"`
	Scope        string    `json:"scope"`
	StudentCount int       `json:"student_count"`
}

// RefreshCache invalidates cached student data and reloads it from the
// directory. An empty id set clears the whole student namespace; a non-empty
// set clears and reloads only that selection.
func (s *IntegrationService) RefreshCache(ctx context.Context, ids []int64) (*RefreshResult, error) {
	if len(ids) == 0 {
		if err := s.cache.DeletePrefix(ctx, cache.StudentDataPrefix); err != nil {
			return nil, integrationError("failed to clear student cache: %v", err)
		}
	} else {
		if err := s.cache.Delete(ctx, cache.StudentDataKey(ids)); err != nil {
			return nil, integrationError("failed to clear student cache entry: %v", err)
		}
	}

	students, err := s.FetchStudents(ctx, ids, true)
	if err != nil {
		return nil, err
	}

	scope := "all"
	if len(ids) > 0 {
		scope = fmt.Sprintf("%d selected students", len(ids))
	}

	s.logger.Info().Str("scope", scope).Int("count", len(students)).Msg("Student cache refreshed")

	return &RefreshResult{
		RefreshedAt:  time.Now().UTC(),
		Scope:        scope,
		StudentCount: len(students),
	}, nil
}
