package lessons_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/lessons"
	"plumberf/internal/app/model"
	"plumberf/internal/app/repository"
	"plumberf/internal/app/testutil"
)

func seedLesson(t *testing.T, store *repository.Store, trade *model.Trade) *model.LessonDetail {
	t.Helper()
	ctx := context.Background()
	jv := testutil.SeedJobVideo(t, store, trade.ID, model.StatusProcessed)
	id, err := store.CreateLesson(ctx, jv, testutil.SinkDraft())
	require.NoError(t, err)
	lesson, err := store.GetLesson(ctx, id)
	require.NoError(t, err)
	return lesson
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestSQLite(t)
	svc := lessons.NewService(store, nil)
	lesson := seedLesson(t, store, testutil.SeedTrade(t, store, "plumbing"))

	updated, err := svc.UpdateStatus(ctx, lesson.ID, model.LessonStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, model.LessonStatusPublished, updated.Status)

	_, err = svc.UpdateStatus(ctx, lesson.ID, "archived")
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.UpdateStatus(ctx, 999, model.LessonStatusHidden)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestService_AttachTags(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestSQLite(t)
	svc := lessons.NewService(store, nil)
	lesson := seedLesson(t, store, testutil.SeedTrade(t, store, "plumbing"))

	updated, err := svc.AttachTags(ctx, lesson.ID, []string{"Leak", "sink", " "})
	require.NoError(t, err)
	names := make([]string, 0, len(updated.Tags))
	for _, tag := range updated.Tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"sink", "drain", "Leak"}, names)

	_, err = svc.AttachTags(ctx, lesson.ID, []string{"  "})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.AttachTags(ctx, 12345, []string{"sink"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestSQLite(t)
	svc := lessons.NewService(store, nil)
	plumbing := testutil.SeedTrade(t, store, "plumbing")
	electrical := testutil.SeedTrade(t, store, "electrical")
	first := seedLesson(t, store, plumbing)
	seedLesson(t, store, electrical)

	all, err := svc.List(ctx, model.LessonFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyPlumbing, err := svc.List(ctx, model.LessonFilter{TradeID: plumbing.ID})
	require.NoError(t, err)
	require.Len(t, onlyPlumbing, 1)
	assert.Equal(t, first.ID, onlyPlumbing[0].ID)

	_, err = svc.List(ctx, model.LessonFilter{Status: "bogus"})
	assert.True(t, apperrors.IsValidation(err))

	byJobVideo, err := svc.GetByJobVideo(ctx, first.JobVideoID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, byJobVideo.ID)
}
