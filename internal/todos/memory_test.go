package todos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaultsToPending(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	created, err := s.Create(ctx, CreateInput{StudentID: 1, Title: "overdue already", DueDate: &past})
	require.NoError(t, err)
	// A past due date does not change the stored status.
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, PriorityMedium, created.Priority)
}

func TestCreateValidation(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	_, err := s.Create(ctx, CreateInput{StudentID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Create(ctx, CreateInput{Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Create(ctx, CreateInput{StudentID: 1, Title: "x", Priority: "urgent-ish"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPartialUpdateKeepsUnsetFields(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	due := time.Now().Add(24 * time.Hour)
	created, err := s.Create(ctx, CreateInput{
		StudentID:   1,
		Title:       "write report",
		Description: "quarterly numbers",
		Priority:    PriorityHigh,
		DueDate:     &due,
	})
	require.NoError(t, err)

	title := "write final report"
	updated, err := s.Update(ctx, created.ID, Update{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "write final report", updated.Title)
	assert.Equal(t, "quarterly numbers", updated.Description)
	assert.Equal(t, PriorityHigh, updated.Priority)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(due))

	bad := "someday"
	_, err = s.Update(ctx, created.ID, Update{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Update(ctx, 99, Update{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersAndPaging(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		in := CreateInput{StudentID: 1, Title: "a", Priority: PriorityLow}
		if i%2 == 1 {
			in.StudentID = 2
			in.Priority = PriorityCritical
		}
		_, err := s.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	byStudent, err := s.List(ctx, Filter{StudentID: 2})
	require.NoError(t, err)
	assert.Len(t, byStudent, 2)

	byPriority, err := s.List(ctx, Filter{Priority: PriorityCritical})
	require.NoError(t, err)
	assert.Len(t, byPriority, 2)

	page, err := s.List(ctx, Filter{Skip: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = s.List(ctx, Filter{Skip: 10, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestStatsDerivesOverdueFromDueDate(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	_, err := s.Create(ctx, CreateInput{StudentID: 1, Title: "late", DueDate: &past, Priority: PriorityHigh})
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateInput{StudentID: 1, Title: "on time", DueDate: &future})
	require.NoError(t, err)
	created, err := s.Create(ctx, CreateInput{StudentID: 1, Title: "no due date", Priority: PriorityCritical})
	require.NoError(t, err)

	done := StatusCompleted
	_, err = s.Update(ctx, created.ID, Update{Status: &done})
	require.NoError(t, err)

	st, err := s.Stats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.Pending)
	assert.Equal(t, 1, st.Completed)
	// Only the past-due todo counts, independent of its stored status.
	assert.Equal(t, 1, st.Overdue)
	assert.Equal(t, 2, st.HighPriority)
}

func TestDeleteMissingLeavesCollectionUnchanged(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	_, err := s.Create(ctx, CreateInput{StudentID: 1, Title: "keep me"})
	require.NoError(t, err)

	_, err = s.Delete(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	all, _ := s.List(ctx, Filter{})
	assert.Len(t, all, 1)
}
