package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/entities"
	"foodgram/internal/testutil"
)

func TestImportIngredientsIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	data := "\ufeffname,measurement_unit\nflour, g\nsugar,g\nsugar,cup\n"

	n, err := ImportIngredients(ctx, db, strings.NewReader(data))
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = ImportIngredients(ctx, db, strings.NewReader(data))
	require.NoError(t, err)
	assert.Zero(t, n)

	var flour entities.Ingredient
	require.NoError(t, db.Where("name = ?", "flour").First(&flour).Error)
	assert.Equal(t, "g", flour.MeasurementUnit)

	var count int64
	require.NoError(t, db.Model(&entities.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestImportRejectsBadInput(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	_, err := ImportIngredients(ctx, db, strings.NewReader("title,unit\nflour,g\n"))
	assert.ErrorContains(t, err, "unexpected csv header")

	_, err = ImportIngredients(ctx, db, strings.NewReader("name,measurement_unit\nflour,g\nsalt,\n"))
	assert.ErrorContains(t, err, "line 3: empty measurement_unit")

	_, err = ImportIngredients(ctx, db, strings.NewReader("name,measurement_unit\nflour\n"))
	assert.Error(t, err)

	n, err := ImportIngredients(ctx, db, strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestImportTags(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	n, err := ImportTags(ctx, db, strings.NewReader("name,color,slug\nBreakfast,#E26C2D,breakfast\nLunch,#49B64E,lunch\n"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var tag entities.Tag
	require.NoError(t, db.Where("slug = ?", "lunch").First(&tag).Error)
	assert.Equal(t, "#49B64E", tag.Color)
}
