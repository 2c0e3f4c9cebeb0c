package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitLogRepo_AppendAndListNewestFirst(t *testing.T) {
	repo := NewSQLiteCommitLogRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := testutil.NewTestCommitRecord(domain.ContentProjects, true, base)
	second := testutil.NewTestCommitRecord(domain.ContentServices, false, base.Add(500*time.Millisecond))
	third := testutil.NewTestCommitRecord(domain.ContentProjects, true, base.Add(time.Second))
	for _, r := range []domain.CommitRecord{first, second, third} {
		require.NoError(t, repo.Append(ctx, r))
	}

	all, err := repo.ListRecent(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	assert.False(t, all[1].Succeeded)
	assert.Equal(t, "status 500", all[1].Error)
	assert.Equal(t, 120*time.Millisecond, all[1].Duration())
	assert.True(t, all[2].StartedAt.Equal(base))
}

func TestCommitLogRepo_FilterAndLimit(t *testing.T) {
	repo := NewSQLiteCommitLogRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, testutil.NewTestCommitRecord(domain.ContentProjects, true, base.Add(time.Duration(i)*time.Second))))
	}
	require.NoError(t, repo.Append(ctx, testutil.NewTestCommitRecord(domain.ContentTestimonials, true, base)))

	ct := domain.ContentProjects
	got, err := repo.ListRecent(ctx, &ct, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, domain.ContentProjects, r.ContentType)
	}
	assert.True(t, got[0].StartedAt.After(got[1].StartedAt))
}

func TestCommitLogRepo_AssignsID(t *testing.T) {
	repo := NewSQLiteCommitLogRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	rec := testutil.NewTestCommitRecord(domain.ContentExperiences, true, time.Now())
	rec.ID = ""
	require.NoError(t, repo.Append(ctx, rec))

	got, err := repo.ListRecent(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
}
