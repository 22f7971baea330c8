package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeyemi/campuscore/internal/app/models"
	"github.com/adeyemi/campuscore/internal/app/repositories"
	"github.com/adeyemi/campuscore/internal/cache"
)

func newIntegrationHarness(t *testing.T, directory *fakeDirectory) (*IntegrationService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	resolver := NewRecipientService(directory, zerolog.Nop())
	svc := NewIntegrationService(directory, resolver, cache.NewRedisCacheFromClient(client), time.Minute, zerolog.Nop())
	return svc, mr
}

func TestFetchStudentsCachesDirectoryResult(t *testing.T) {
	directory := &fakeDirectory{students: []*models.Student{
		testStudent(1, "Ada Obi", "ada@unibuea.cm", 10),
		testStudent(2, "Ben Ade", "ben@unibuea.cm", 10),
	}}
	svc, mr := newIntegrationHarness(t, directory)
	ctx := context.Background()

	first, err := svc.FetchStudents(ctx, nil, false)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, directory.listCalls)
	assert.True(t, mr.Exists("students:data:all"))

	second, err := svc.FetchStudents(ctx, nil, false)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, 1, directory.listCalls, "second fetch must come from cache")
	assert.Equal(t, "ada@unibuea.cm", second[0].Email())
}

func TestFetchStudentsForceRefresh(t *testing.T) {
	directory := &fakeDirectory{students: []*models.Student{
		testStudent(1, "Ada Obi", "ada@unibuea.cm", 10),
	}}
	svc, _ := newIntegrationHarness(t, directory)
	ctx := context.Background()

	_, err := svc.FetchStudents(ctx, nil, false)
	require.NoError(t, err)

	_, err = svc.FetchStudents(ctx, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 2, directory.listCalls)
}

func TestFetchStudentsByIDsIgnoresActiveFlag(t *testing.T) {
	inactive := testStudent(2, "Ben Ade", "ben@unibuea.cm", 10)
	inactive.IsActive = false
	directory := &fakeDirectory{students: []*models.Student{
		testStudent(1, "Ada Obi", "ada@unibuea.cm", 10),
		inactive,
	}}
	svc, mr := newIntegrationHarness(t, directory)

	students, err := svc.FetchStudents(context.Background(), []int64{2, 1}, false)
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Nil(t, directory.lastFilter.Active)
	assert.True(t, mr.Exists("students:data:ids:1-2"))
}

func TestClassifyEmailsPartitionsEveryStudent(t *testing.T) {
	noAccount := &models.Student{ID: 4, FullName: "Dan Uba", MatricNumber: "UB4", IsActive: true}
	blankEmail := testStudent(5, "Efe Olu", "", 10)

	directory := &fakeDirectory{students: []*models.Student{
		testStudent(1, "Ada Obi", "shared@unibuea.cm", 10),
		testStudent(2, "Ben Ade", "shared@unibuea.cm", 10),
		testStudent(3, "Chi Eze", "chi@unibuea.cm", 10),
		noAccount,
		blankEmail,
		testStudent(6, "Femi Ojo", "not-an-email", 10),
	}}
	svc, _ := newIntegrationHarness(t, directory)

	result, err := svc.ClassifyEmails(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalProcessed)
	assert.Equal(t, 3, result.ValidCount())
	assert.Equal(t, 1, result.InvalidCount())
	assert.Equal(t, 2, result.MissingCount())
	assert.Equal(t, result.TotalProcessed, result.ValidCount()+result.InvalidCount()+result.MissingCount())

	require.Len(t, result.DuplicateEmails, 1)
	assert.Len(t, result.DuplicateEmails["shared@unibuea.cm"], 2)
	assert.Equal(t, 1, result.DuplicateCount())
	assert.InDelta(t, 50.0, result.SuccessRate(), 0.001)
}

func TestClassifyEmailsEmptyPopulation(t *testing.T) {
	svc, _ := newIntegrationHarness(t, &fakeDirectory{})

	result, err := svc.ClassifyEmails(context.Background(), []*models.Student{})
	require.NoError(t, err)
	assert.Zero(t, result.TotalProcessed)
	assert.Zero(t, result.SuccessRate())
}

func TestEmailValidationReportRounding(t *testing.T) {
	result := NewEmailValidationResult()
	result.TotalProcessed = 3
	result.ValidStudents = []*models.Student{
		testStudent(1, "Ada Obi", "ada@unibuea.cm", 10),
		testStudent(2, "Ben Ade", "ben@unibuea.cm", 10),
	}
	result.MissingEmailStudents = []*models.Student{{ID: 3}}

	report := result.Report()
	assert.Equal(t, 66.67, report.SuccessRate)
	assert.NotNil(t, report.ValidationErrors)
	assert.Empty(t, report.DuplicateEmails)
}

func TestFindMissingDataCategories(t *testing.T) {
	// One record in several categories at once: counted in each.
	orphan := &models.Student{ID: 1, FullName: "Ada Obi", MatricNumber: "UB1", IsActive: true}
	blankEmail := testStudent(2, "Ben Ade", "", 10)
	badEmail := withLevel(testStudent(3, "Chi Eze", "broken@", 10), 1, "200 Level", 200)
	complete := withLevel(testStudent(4, "Dan Uba", "dan@unibuea.cm", 10), 2, "300 Level", 300)
	inactive := testStudent(5, "Efe Olu", "efe@unibuea.cm", 10)
	inactive.IsActive = false

	directory := &fakeDirectory{students: []*models.Student{orphan, blankEmail, badEmail, complete, inactive}}
	svc, _ := newIntegrationHarness(t, directory)

	report, err := svc.FindMissingData(context.Background())
	require.NoError(t, err)

	counts := report.Counts()
	assert.Equal(t, 1, counts[CategoryNoUserAccount], "orphan record")
	assert.Equal(t, 1, counts[CategoryNoEmail], "blank account email only, orphans excluded")
	assert.Equal(t, 1, counts[CategoryInvalidEmail])
	assert.Equal(t, 1, counts[CategoryNoDepartment], "orphan has no department either")
	assert.Equal(t, 2, counts[CategoryNoLevelSelection])
	assert.Equal(t, 1, counts[CategoryInactiveStudents])
	assert.Equal(t, 7, report.TotalIssues())
}

func TestHealthStatusBands(t *testing.T) {
	tests := []struct {
		successRate float64
		missingRate float64
		want        string
	}{
		{100, 0, "excellent"},
		{95, 5, "excellent"},
		{94.9, 5, "good"},
		{95, 5.1, "good"},
		{90, 10, "good"},
		{89.9, 10, "fair"},
		{80, 20, "fair"},
		{79.9, 20, "poor"},
		{80, 20.1, "poor"},
		{0, 100, "poor"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, healthStatus(tt.successRate, tt.missingRate),
			"success=%.1f missing=%.1f", tt.successRate, tt.missingRate)
	}
}

func TestHealthReportCleanPopulation(t *testing.T) {
	directory := &fakeDirectory{
		students: []*models.Student{
			withLevel(testStudent(1, "Ada Obi", "ada@unibuea.cm", 10), 1, "200 Level", 200),
			withLevel(testStudent(2, "Ben Ade", "ben@unibuea.cm", 10), 2, "300 Level", 300),
		},
		counts:    repositories.StudentCounts{Total: 2, Active: 2},
		deptUtil:  repositories.UtilizationCounts{Total: 4, WithStudents: 4},
		levelUtil: repositories.UtilizationCounts{Total: 10, WithStudents: 5},
	}
	svc, _ := newIntegrationHarness(t, directory)

	report, err := svc.HealthReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "excellent", report.Status)
	assert.Equal(t, int64(2), report.TotalStudents)
	assert.Equal(t, int64(2), report.ActiveStudents)
	assert.Equal(t, 100.0, report.EmailValidation.SuccessRate)
	assert.Zero(t, report.MissingDataRate)
	assert.Equal(t, 100.0, report.DepartmentCoverage)
	assert.Equal(t, 50.0, report.LevelCoverage)
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Recommendations)
}

func TestHealthReportFindingsOrder(t *testing.T) {
	blankEmail := withLevel(testStudent(1, "Ada Obi", "", 10), 1, "200 Level", 200)
	badEmail := withLevel(testStudent(2, "Ben Ade", "broken@", 10), 2, "300 Level", 300)
	inactive := testStudent(3, "Chi Eze", "chi@unibuea.cm", 10)
	inactive.IsActive = false

	directory := &fakeDirectory{
		students: []*models.Student{blankEmail, badEmail, inactive},
		counts:   repositories.StudentCounts{Total: 3, Active: 2},
	}
	svc, _ := newIntegrationHarness(t, directory)

	report, err := svc.HealthReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "poor", report.Status)
	assert.Equal(t, []string{
		"1 students have no email address",
		"1 students have an invalid email address",
		"1 student accounts carry no email",
		"1 student accounts carry a malformed email",
		"1 student records are deactivated",
	}, report.Issues)
	assert.Len(t, report.Recommendations, len(report.Issues))
	assert.Equal(t, "Collect email addresses for students currently without one", report.Recommendations[0])
}

func TestHealthReportEmptyDirectory(t *testing.T) {
	svc, _ := newIntegrationHarness(t, &fakeDirectory{})

	report, err := svc.HealthReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "poor", report.Status)
	assert.Equal(t, 100.0, report.MissingDataRate)
	assert.Empty(t, report.Issues)
}

func TestDeliveryReadinessCleanSend(t *testing.T) {
	directory := &fakeDirectory{students: []*models.Student{
		testStudent(1, "Ada Obi", "ada@unibuea.cm", 10),
		testStudent(2, "Ben Ade", "ben@unibuea.cm", 10),
		testStudent(3, "Chi Eze", "chi@unibuea.cm", 10),
	}}
	svc, _ := newIntegrationHarness(t, directory)

	report, err := svc.DeliveryReadiness(context.Background(), RecipientConfig{Type: SelectAll})
	require.NoError(t, err)

	assert.Equal(t, 100, report.Score)
	assert.Equal(t, "excellent", report.Status)
	assert.Equal(t, 3, report.RecipientCount)
	assert.Equal(t, []string{"Email delivery is ready to proceed"}, report.Recommendations)
	require.Len(t, report.Factors, 4)
	for _, factor := range report.Factors {
		assert.Contains(t, factor, "✓")
	}
}

func TestDeliveryReadinessCustomAddresses(t *testing.T) {
	directory := &fakeDirectory{}
	svc, _ := newIntegrationHarness(t, directory)

	report, err := svc.DeliveryReadiness(context.Background(), RecipientConfig{
		Type:   SelectCustom,
		Emails: []string{"a@x.com", "b@y.com"},
	})
	require.NoError(t, err)

	// Custom sends skip the directory, so no population backs the
	// validation: 40 + 0 + 15 + 15.
	assert.Equal(t, 70, report.Score)
	assert.Equal(t, "fair", report.Status)
	assert.Equal(t, 2, report.RecipientCount)
	assert.Zero(t, report.EmailValidation.TotalProcessed)
	assert.Zero(t, directory.listCalls)
}

func TestDeliveryReadinessNoRecipients(t *testing.T) {
	svc, _ := newIntegrationHarness(t, &fakeDirectory{})

	report, err := svc.DeliveryReadiness(context.Background(), RecipientConfig{
		Type:          SelectDepartment,
		DepartmentIDs: []int64{42},
	})
	require.NoError(t, err)

	assert.Equal(t, 30, report.Score)
	assert.Equal(t, "poor", report.Status)
	assert.Zero(t, report.RecipientCount)
	assert.Equal(t, "✗ No recipients selected", report.Factors[0])
	assert.Contains(t, report.Recommendations, "Adjust the recipient configuration so it matches at least one address")
}

func TestRefreshCacheAll(t *testing.T) {
	directory := &fakeDirectory{students: []*models.Student{
		testStudent(1, "Ada Obi", "ada@unibuea.cm", 10),
		testStudent(2, "Ben Ade", "ben@unibuea.cm", 10),
	}}
	svc, mr := newIntegrationHarness(t, directory)
	ctx := context.Background()

	_, err := svc.FetchStudents(ctx, nil, false)
	require.NoError(t, err)
	_, err = svc.FetchStudents(ctx, []int64{1}, false)
	require.NoError(t, err)
	require.True(t, mr.Exists("students:data:ids:1"))

	result, err := svc.RefreshCache(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, "all", result.Scope)
	assert.Equal(t, 2, result.StudentCount)
	assert.True(t, mr.Exists("students:data:all"), "full set reloaded after refresh")
	assert.False(t, mr.Exists("students:data:ids:1"), "selection entries cleared with the namespace")

	// Refreshing again without directory changes is idempotent.
	again, err := svc.RefreshCache(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, result.StudentCount, again.StudentCount)
}

func TestRefreshCacheSelected(t *testing.T) {
	directory := &fakeDirectory{students: []*models.Student{
		testStudent(1, "Ada Obi", "ada@unibuea.cm", 10),
		testStudent(2, "Ben Ade", "ben@unibuea.cm", 10),
	}}
	svc, mr := newIntegrationHarness(t, directory)
	ctx := context.Background()

	_, err := svc.FetchStudents(ctx, nil, false)
	require.NoError(t, err)

	result, err := svc.RefreshCache(ctx, []int64{2, 1})
	require.NoError(t, err)

	assert.Equal(t, "2 selected students", result.Scope)
	assert.Equal(t, 2, result.StudentCount)
	assert.True(t, mr.Exists("students:data:all"), "full set untouched by a selective refresh")
	assert.True(t, mr.Exists("students:data:ids:1-2"))
}
