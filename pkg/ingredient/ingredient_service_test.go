package ingredient

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/domain"
	"foodgram/internal/testutil"
)

func names(items []domain.Ingredient) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Name+" ("+i.MeasurementUnit+")")
	}
	return out
}

func TestGetIngredientsByPrefix(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewIngredientService(NewIngredientRepository(db))
	ctx := context.Background()

	testutil.CreateIngredient(t, db, "Salt", "g")
	testutil.CreateIngredient(t, db, "Sugar", "g")
	testutil.CreateIngredient(t, db, "Sugar", "cup")
	testutil.CreateIngredient(t, db, "Brown sugar", "g")
	testutil.CreateIngredient(t, db, "100% juice", "ml")
	testutil.CreateIngredient(t, db, "1000 island", "ml")
	testutil.CreateIngredient(t, db, "a_b", "pcs")
	testutil.CreateIngredient(t, db, "axb", "pcs")

	tests := []struct {
		prefix string
		want   []string
	}{
		{"su", []string{"Sugar (cup)", "Sugar (g)"}},
		{"SU", []string{"Sugar (cup)", "Sugar (g)"}},
		{"  sug ", []string{"Sugar (cup)", "Sugar (g)"}},
		{"100%", []string{"100% juice (ml)"}},
		{"a_", []string{"a_b (pcs)"}},
		{"zz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := svc.GetIngredients(ctx, tt.prefix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}

	all, err := svc.GetIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func TestGetIngredient(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewIngredientService(NewIngredientRepository(db))
	ctx := context.Background()
	salt := testutil.CreateIngredient(t, db, "Salt", "g")

	got, err := svc.GetIngredient(ctx, salt.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.Ingredient{ID: salt.ID.String(), Name: "Salt", MeasurementUnit: "g"}, got)

	_, err = svc.GetIngredient(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
	_, err = svc.GetIngredient(ctx, "salt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
