package recipe

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/pkg/dberr"
)

type kitchen struct {
	db        *gorm.DB
	author    *entities.User
	other     *entities.User
	flour     *entities.Ingredient
	sugar     *entities.Ingredient
	eggs      *entities.Ingredient
	breakfast *entities.Tag
	dinner    *entities.Tag
}

func newKitchen(t *testing.T) *kitchen {
	db := testutil.NewDB(t)
	return &kitchen{
		db:        db,
		author:    testutil.CreateUser(t, db, "author", domain.RoleAuthorized),
		other:     testutil.CreateUser(t, db, "other", domain.RoleAuthorized),
		flour:     testutil.CreateIngredient(t, db, "Flour", "g"),
		sugar:     testutil.CreateIngredient(t, db, "Sugar", "g"),
		eggs:      testutil.CreateIngredient(t, db, "Eggs", "pcs"),
		breakfast: testutil.CreateTag(t, db, "Breakfast", "#E26C2D", "breakfast"),
		dinner:    testutil.CreateTag(t, db, "Dinner", "#8775D2", "dinner"),
	}
}

func TestIngredientAmountPairIsUnique(t *testing.T) {
	k := newKitchen(t)
	r := testutil.CreateRecipe(t, k.db, k.author, testutil.RecipeSpec{Name: "bread"})

	first := &entities.IngredientAmount{RecipeID: r.ID, IngredientID: k.flour.ID, Amount: 100}
	require.NoError(t, k.db.Omit(clause.Associations).Create(first).Error)

	second := &entities.IngredientAmount{RecipeID: r.ID, IngredientID: k.flour.ID, Amount: 200}
	err := k.db.Omit(clause.Associations).Create(second).Error
	require.Error(t, err)
	assert.True(t, dberr.IsUniqueViolation(err), err.Error())
}

func TestCreateRecipe(t *testing.T) {
	k := newKitchen(t)
	repo := NewRecipeRepository(k.db)
	ctx := context.Background()

	recipe := &entities.Recipe{AuthorID: k.author.ID, Name: "Pancakes", Text: "Whisk.", CookingTime: 20}
	err := repo.CreateRecipe(ctx, recipe,
		[]entities.IngredientAmount{
			{IngredientID: k.flour.ID, Amount: 200},
			{IngredientID: k.eggs.ID, Amount: 2},
		},
		[]uuid.UUID{k.breakfast.ID},
	)
	require.NoError(t, err)

	got, err := repo.GetRecipeByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Name)
	assert.False(t, got.PubDate.IsZero())
	require.NotNil(t, got.Author)
	assert.Equal(t, "author", got.Author.Username)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "breakfast", got.Tags[0].Slug)
	require.Len(t, got.IngredientAmounts, 2)
	for _, a := range got.IngredientAmounts {
		require.NotNil(t, a.Ingredient)
	}
}

func TestCreateRecipeRejectsBadComposition(t *testing.T) {
	k := newKitchen(t)
	repo := NewRecipeRepository(k.db)
	ctx := context.Background()

	cases := []struct {
		name    string
		amounts []entities.IngredientAmount
		tags    []uuid.UUID
		want    error
	}{
		{
			name: "duplicate ingredient",
			amounts: []entities.IngredientAmount{
				{IngredientID: k.flour.ID, Amount: 1},
				{IngredientID: k.flour.ID, Amount: 2},
			},
			want: domain.ErrDuplicateIngredient,
		},
		{
			name:    "unknown ingredient",
			amounts: []entities.IngredientAmount{{IngredientID: uuid.New(), Amount: 1}},
			want:    domain.ErrIngredientNotFound,
		},
		{
			name:    "unknown tag",
			amounts: []entities.IngredientAmount{{IngredientID: k.flour.ID, Amount: 1}},
			tags:    []uuid.UUID{uuid.New()},
			want:    domain.ErrTagNotFound,
		},
		{
			name:    "amount out of range",
			amounts: []entities.IngredientAmount{{IngredientID: k.flour.ID, Amount: 3001}},
			want:    domain.ErrValueOutOfRange,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recipe := &entities.Recipe{AuthorID: k.author.ID, Name: tc.name, Text: "x", CookingTime: 10}
			err := repo.CreateRecipe(ctx, recipe, tc.amounts, tc.tags)
			assert.ErrorIs(t, err, tc.want)

			var count int64
			k.db.Model(&entities.Recipe{}).Where("name = ?", tc.name).Count(&count)
			assert.Zero(t, count, "transaction must roll back")
		})
	}
}

func TestCookingTimeBounds(t *testing.T) {
	k := newKitchen(t)
	repo := NewRecipeRepository(k.db)
	ctx := context.Background()

	for _, minutes := range []int{0, 301} {
		r := &entities.Recipe{AuthorID: k.author.ID, Name: "bad", Text: "x", CookingTime: minutes}
		err := repo.CreateRecipe(ctx, r, []entities.IngredientAmount{{IngredientID: k.flour.ID, Amount: 1}}, nil)
		assert.ErrorIs(t, err, domain.ErrValueOutOfRange, "cooking_time %d", minutes)
	}
	for _, minutes := range []int{1, 300} {
		r := &entities.Recipe{AuthorID: k.author.ID, Name: "ok", Text: "x", CookingTime: minutes}
		err := repo.CreateRecipe(ctx, r, []entities.IngredientAmount{{IngredientID: k.flour.ID, Amount: 1}}, nil)
		assert.NoError(t, err, "cooking_time %d", minutes)
	}
}

func TestUpdateRecipeReplacesComposition(t *testing.T) {
	k := newKitchen(t)
	repo := NewRecipeRepository(k.db)
	ctx := context.Background()

	pub := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := testutil.CreateRecipe(t, k.db, k.author, testutil.RecipeSpec{
		Name:    "cake",
		PubDate: pub,
		Amounts: map[uuid.UUID]int{k.flour.ID: 300, k.sugar.ID: 100},
		Tags:    []*entities.Tag{k.breakfast},
	})

	r.Name = "better cake"
	r.CookingTime = 45
	r.PubDate = time.Now()
	err := repo.UpdateRecipe(ctx, r,
		[]entities.IngredientAmount{{IngredientID: k.eggs.ID, Amount: 3}},
		[]uuid.UUID{k.dinner.ID},
	)
	require.NoError(t, err)

	got, err := repo.GetRecipeByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "better cake", got.Name)
	assert.Equal(t, 45, got.CookingTime)
	assert.True(t, got.PubDate.Equal(pub), "pub_date is immutable")
	require.Len(t, got.IngredientAmounts, 1)
	assert.Equal(t, k.eggs.ID, got.IngredientAmounts[0].IngredientID)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "dinner", got.Tags[0].Slug)
}

func TestDeleteRecipeCascades(t *testing.T) {
	k := newKitchen(t)
	repo := NewRecipeRepository(k.db)
	favorites := NewLinkRepository[entities.FavoriteRecipe](k.db)
	cart := NewLinkRepository[entities.ShoppingCart](k.db)
	ctx := context.Background()

	r := testutil.CreateRecipe(t, k.db, k.author, testutil.RecipeSpec{
		Name:    "soup",
		Amounts: map[uuid.UUID]int{k.flour.ID: 10},
		Tags:    []*entities.Tag{k.dinner},
	})
	require.NoError(t, favorites.Add(ctx, k.other.ID, r.ID))
	require.NoError(t, cart.Add(ctx, k.other.ID, r.ID))

	require.NoError(t, repo.DeleteRecipe(ctx, r.ID))
	assert.ErrorIs(t, repo.DeleteRecipe(ctx, r.ID), domain.ErrRecipeNotFound)

	for _, table := range []string{"ingredient_amounts", "favorite_recipes", "shopping_carts", "recipe_tags"} {
		var count int64
		require.NoError(t, k.db.Table(table).Where("recipe_id = ?", r.ID).Count(&count).Error)
		assert.Zero(t, count, table)
	}

	var ingredients int64
	k.db.Model(&entities.Ingredient{}).Count(&ingredients)
	assert.EqualValues(t, 3, ingredients, "ingredients survive")
}

func TestGetRecipesFilters(t *testing.T) {
	k := newKitchen(t)
	repo := NewRecipeRepository(k.db)
	favorites := NewLinkRepository[entities.FavoriteRecipe](k.db)
	cart := NewLinkRepository[entities.ShoppingCart](k.db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	omelette := testutil.CreateRecipe(t, k.db, k.author, testutil.RecipeSpec{
		Name: "omelette", PubDate: base, Tags: []*entities.Tag{k.breakfast},
	})
	stew := testutil.CreateRecipe(t, k.db, k.author, testutil.RecipeSpec{
		Name: "stew", PubDate: base.Add(time.Hour), Tags: []*entities.Tag{k.dinner},
	})
	testutil.CreateRecipe(t, k.db, k.other, testutil.RecipeSpec{
		Name: "toast", PubDate: base.Add(2 * time.Hour), Tags: []*entities.Tag{k.breakfast, k.dinner},
	})
	testutil.CreateRecipe(t, k.db, k.other, testutil.RecipeSpec{
		Name: "plain", PubDate: base.Add(3 * time.Hour),
	})

	require.NoError(t, favorites.Add(ctx, k.other.ID, stew.ID))
	require.NoError(t, cart.Add(ctx, k.other.ID, omelette.ID))

	page := domain.PaginationRequest{Page: 1, Limit: 10}
	names := func(f domain.RecipeFilter) ([]string, int64) {
		t.Helper()
		recipes, total, err := repo.GetRecipes(ctx, f, page)
		require.NoError(t, err)
		out := make([]string, 0, len(recipes))
		for _, r := range recipes {
			out = append(out, r.Name)
		}
		return out, total
	}

	got, total := names(domain.RecipeFilter{})
	assert.Equal(t, []string{"plain", "toast", "stew", "omelette"}, got, "newest first")
	assert.EqualValues(t, 4, total)

	got, _ = names(domain.RecipeFilter{Tags: []string{"breakfast"}})
	assert.Equal(t, []string{"toast", "omelette"}, got)

	got, total = names(domain.RecipeFilter{Tags: []string{"breakfast", "dinner"}})
	assert.Equal(t, []string{"toast", "stew", "omelette"}, got, "tags combine with OR, no duplicates")
	assert.EqualValues(t, 3, total)

	got, _ = names(domain.RecipeFilter{AuthorID: k.other.ID.String()})
	assert.Equal(t, []string{"plain", "toast"}, got)

	got, _ = names(domain.RecipeFilter{IsFavorited: true, ViewerID: k.other.ID.String()})
	assert.Equal(t, []string{"stew"}, got)

	got, _ = names(domain.RecipeFilter{IsInShoppingCart: true, ViewerID: k.other.ID.String()})
	assert.Equal(t, []string{"omelette"}, got)

	got, _ = names(domain.RecipeFilter{IsFavorited: true})
	assert.Len(t, got, 4, "anonymous favorite filter is inert")

	_, _, err := repo.GetRecipes(ctx, domain.RecipeFilter{AuthorID: "not-a-uuid"}, page)
	assert.ErrorIs(t, err, domain.ErrParseUUID)

	recipes, total, err := repo.GetRecipes(ctx, domain.RecipeFilter{}, domain.PaginationRequest{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, recipes, 1)
	assert.Equal(t, omelette.ID, recipes[0].ID)
}

func TestRecipesByAuthor(t *testing.T) {
	k := newKitchen(t)
	repo := NewRecipeRepository(k.db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b", "c"} {
		testutil.CreateRecipe(t, k.db, k.author, testutil.RecipeSpec{Name: name, PubDate: base.Add(time.Duration(i) * time.Hour)})
	}

	limited, err := repo.GetRecipesByAuthor(ctx, k.author.ID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "c", limited[0].Name)

	all, err := repo.GetRecipesByAuthor(ctx, k.author.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	count, err := repo.CountRecipesByAuthor(ctx, k.author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}
