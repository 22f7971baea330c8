package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeyemi/campuscore/internal/app/models"
	"github.com/adeyemi/campuscore/internal/app/repositories"
	"github.com/adeyemi/campuscore/internal/pkg/apperrors"
)

// fakeDirectory is an in-memory StudentDirectory for service tests. It
// applies the same filter semantics as the SQL read model.
type fakeDirectory struct {
	students   []*models.Student
	counts     repositories.StudentCounts
	deptUtil   repositories.UtilizationCounts
	levelUtil  repositories.UtilizationCounts
	err        error
	listCalls  int
	lastFilter repositories.StudentFilter
}

func (f *fakeDirectory) List(_ context.Context, filter repositories.StudentFilter) ([]*models.Student, error) {
	f.listCalls++
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}

	var out []*models.Student
	for _, s := range f.students {
		if len(filter.IDs) > 0 && !containsID(filter.IDs, s.ID) {
			continue
		}
		if len(filter.DepartmentIDs) > 0 {
			if s.DepartmentID == nil || !containsID(filter.DepartmentIDs, *s.DepartmentID) {
				continue
			}
		}
		if filter.Active != nil && s.IsActive != *filter.Active {
			continue
		}
		if filter.RequireEmail {
			if s.User == nil || strings.TrimSpace(s.User.Email) == "" {
				continue
			}
		}
		if len(filter.Levels) > 0 && !matchesLevel(s, filter.Levels) {
			continue
		}
		if filter.LevelDepartmentID != nil {
			if s.DepartmentID == nil || *s.DepartmentID != *filter.LevelDepartmentID {
				continue
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeDirectory) Counts(context.Context) (repositories.StudentCounts, error) {
	if f.err != nil {
		return repositories.StudentCounts{}, f.err
	}
	return f.counts, nil
}

func (f *fakeDirectory) DepartmentUtilization(context.Context) (repositories.UtilizationCounts, error) {
	return f.deptUtil, nil
}

func (f *fakeDirectory) LevelUtilization(context.Context) (repositories.UtilizationCounts, error) {
	return f.levelUtil, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func matchesLevel(s *models.Student, levels []string) bool {
	for _, sel := range s.LevelSelections {
		if sel.Level == nil {
			continue
		}
		for _, want := range levels {
			if sel.Level.Name == want || strconv.Itoa(sel.Level.Code) == want {
				return true
			}
		}
	}
	return false
}

// testStudent builds an active student with a linked account.
func testStudent(id int64, name, email string, deptID int64) *models.Student {
	s := &models.Student{
		ID:           id,
		FullName:     name,
		MatricNumber: "UB" + strconv.FormatInt(id, 10),
		IsActive:     true,
		DepartmentID: &deptID,
	}
	userID := id + 1000
	s.UserID = &userID
	s.User = &models.User{ID: userID, Email: email, IsActive: true}
	return s
}

func withLevel(s *models.Student, levelID int64, name string, code int) *models.Student {
	s.LevelSelections = append(s.LevelSelections, models.LevelSelection{
		ID:        levelID,
		StudentID: s.ID,
		LevelID:   levelID,
		Level:     &models.Level{ID: levelID, Name: name, Code: code, IsActive: true},
	})
	return s
}

func newTestResolver(directory StudentDirectory) *RecipientService {
	return NewRecipientService(directory, zerolog.Nop())
}

func TestRecipientConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  RecipientConfig
		wantErr bool
	}{
		{"all needs nothing", RecipientConfig{Type: SelectAll}, false},
		{"department with ids", RecipientConfig{Type: SelectDepartment, DepartmentIDs: []int64{1}}, false},
		{"department without ids", RecipientConfig{Type: SelectDepartment}, true},
		{"level with levels", RecipientConfig{Type: SelectLevel, Levels: []string{"200 Level"}}, false},
		{"level without levels", RecipientConfig{Type: SelectLevel}, true},
		{"specific with ids", RecipientConfig{Type: SelectSpecific, StudentIDs: []int64{1}}, false},
		{"specific without ids", RecipientConfig{Type: SelectSpecific}, true},
		{"custom with emails", RecipientConfig{Type: SelectCustom, Emails: []string{"a@x.com"}}, false},
		{"custom without emails", RecipientConfig{Type: SelectCustom}, true},
		{"unknown type", RecipientConfig{Type: "everyone"}, true},
		{"empty type", RecipientConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrRecipientConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSelectStudentsAppliesActiveAndEmailFilter(t *testing.T) {
	directory := &fakeDirectory{}
	resolver := newTestResolver(directory)

	_, err := resolver.SelectStudents(context.Background(), RecipientConfig{Type: SelectAll})
	require.NoError(t, err)

	require.NotNil(t, directory.lastFilter.Active)
	assert.True(t, *directory.lastFilter.Active)
	assert.True(t, directory.lastFilter.RequireEmail)
}

func TestSelectStudentsSpecificKeepsFilters(t *testing.T) {
	inactive := testStudent(1, "Ada Obi", "ada@unibuea.cm", 10)
	inactive.IsActive = false
	noEmail := testStudent(2, "Ben Ade", "", 10)
	ok := testStudent(3, "Chi Eze", "chi@unibuea.cm", 10)

	directory := &fakeDirectory{students: []*models.Student{inactive, noEmail, ok}}
	resolver := newTestResolver(directory)

	students, err := resolver.SelectStudents(context.Background(), RecipientConfig{
		Type:       SelectSpecific,
		StudentIDs: []int64{1, 2, 3},
	})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, int64(3), students[0].ID)
}

func TestSelectStudentsCustomSkipsDirectory(t *testing.T) {
	directory := &fakeDirectory{err: errors.New("directory down")}
	resolver := newTestResolver(directory)

	students, err := resolver.SelectStudents(context.Background(), RecipientConfig{
		Type:   SelectCustom,
		Emails: []string{"a@x.com"},
	})
	require.NoError(t, err)
	assert.Nil(t, students)
	assert.Zero(t, directory.listCalls)
}

func TestSelectStudentsWrapsDirectoryFailure(t *testing.T) {
	directory := &fakeDirectory{err: errors.New("connection refused")}
	resolver := newTestResolver(directory)

	_, err := resolver.SelectStudents(context.Background(), RecipientConfig{Type: SelectAll})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIntegration))
}

func TestBuildRecipientListDeduplicates(t *testing.T) {
	directory := &fakeDirectory{students: []*models.Student{
		testStudent(1, "Ada Obi", "Ada@unibuea.cm", 10),
		testStudent(2, "Ben Ade", "ada@UNIBUEA.cm", 10),
		testStudent(3, "Chi Eze", "chi@unibuea.cm", 10),
	}}
	resolver := newTestResolver(directory)

	recipients, metadata, err := resolver.BuildRecipientList(context.Background(), RecipientConfig{Type: SelectAll})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"ada@unibuea.cm", "chi@unibuea.cm"}, recipients)
	assert.Equal(t, 2, metadata.TotalCount)
	assert.Equal(t, 1, metadata.DuplicateCount)
	assert.Equal(t, SelectAll, metadata.Type)
	require.Len(t, metadata.Sources, 1)
	assert.Contains(t, metadata.Sources[0], "All students")
}

func TestBuildRecipientListByDepartment(t *testing.T) {
	directory := &fakeDirectory{students: []*models.Student{
		testStudent(1, "Ada Obi", "ada@unibuea.cm", 10),
		testStudent(2, "Ben Ade", "ben@unibuea.cm", 10),
		testStudent(3, "Chi Eze", "chi@unibuea.cm", 20),
		testStudent(4, "Dan Uba", "dan@unibuea.cm", 30),
	}}
	resolver := newTestResolver(directory)

	tests := []struct {
		departments []int64
		want        int
	}{
		{[]int64{10}, 2},
		{[]int64{20}, 1},
		{[]int64{30}, 1},
		{[]int64{10, 20, 30}, 4},
		{[]int64{99}, 0},
	}

	for _, tt := range tests {
		recipients, metadata, err := resolver.BuildRecipientList(context.Background(), RecipientConfig{
			Type:          SelectDepartment,
			DepartmentIDs: tt.departments,
		})
		require.NoError(t, err)
		assert.Len(t, recipients, tt.want)
		assert.Equal(t, tt.want, metadata.TotalCount)
	}
}

func TestBuildRecipientListByLevel(t *testing.T) {
	directory := &fakeDirectory{students: []*models.Student{
		withLevel(testStudent(1, "Ada Obi", "ada@unibuea.cm", 10), 1, "200 Level", 200),
		withLevel(testStudent(2, "Ben Ade", "ben@unibuea.cm", 10), 2, "300 Level", 300),
		testStudent(3, "Chi Eze", "chi@unibuea.cm", 10),
	}}
	resolver := newTestResolver(directory)

	// Match by display name
	recipients, _, err := resolver.BuildRecipientList(context.Background(), RecipientConfig{
		Type:   SelectLevel,
		Levels: []string{"200 Level"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ada@unibuea.cm"}, recipients)

	// Match by numeric code
	recipients, _, err = resolver.BuildRecipientList(context.Background(), RecipientConfig{
		Type:   SelectLevel,
		Levels: []string{"300"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ben@unibuea.cm"}, recipients)
}

func TestBuildRecipientListCustom(t *testing.T) {
	directory := &fakeDirectory{err: errors.New("must not be called")}
	resolver := newTestResolver(directory)

	recipients, metadata, err := resolver.BuildRecipientList(context.Background(), RecipientConfig{
		Type:   SelectCustom,
		Emails: []string{"A@x.com", "b@y.com", "a@X.com", "not-an-email", "b@y.com"},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a@x.com", "b@y.com"}, recipients)
	assert.Equal(t, 2, metadata.TotalCount)
	assert.Equal(t, 2, metadata.DuplicateCount)
	assert.Equal(t, []string{"not-an-email"}, metadata.SkippedEmails)
	assert.Zero(t, directory.listCalls)
}

func TestBuildRecipientListEmptyIsNotAnError(t *testing.T) {
	directory := &fakeDirectory{}
	resolver := newTestResolver(directory)

	recipients, metadata, err := resolver.BuildRecipientList(context.Background(), RecipientConfig{
		Type:          SelectDepartment,
		DepartmentIDs: []int64{42},
	})
	require.NoError(t, err)
	assert.Empty(t, recipients)
	assert.Zero(t, metadata.TotalCount)
}
