package tag

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/domain"
	"foodgram/internal/testutil"
)

func TestTags(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewTagService(NewTagRepository(db))
	ctx := context.Background()

	lunch := testutil.CreateTag(t, db, "Lunch", "#49B64E", "lunch")
	testutil.CreateTag(t, db, "Breakfast", "#E26C2D", "breakfast")

	tags, err := svc.GetTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Slug)
	assert.Equal(t, "lunch", tags[1].Slug)

	got, err := svc.GetTag(ctx, lunch.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.Tag{ID: lunch.ID.String(), Name: "Lunch", Color: "#49B64E", Slug: "lunch"}, got)

	_, err = svc.GetTag(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
	_, err = svc.GetTag(ctx, "lunch")
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}
