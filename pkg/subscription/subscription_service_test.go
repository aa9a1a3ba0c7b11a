package subscription

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/pkg/access"
	"foodgram/pkg/recipe"
	"foodgram/pkg/user"
)

func callerOf(u *entities.User) access.Caller {
	return access.Caller{ID: u.ID.String(), Role: u.Role}
}

func TestSubscribeRules(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	svc := NewSubscriptionService(repo, user.NewUserRepository(db), recipe.NewRecipeRepository(db))
	ctx := context.Background()

	reader := testutil.CreateUser(t, db, "reader", domain.RoleAuthorized)
	chef := testutil.CreateUser(t, db, "chef", domain.RoleAuthorized)

	_, err := svc.Subscribe(ctx, reader.ID.String(), callerOf(reader), 0)
	assert.ErrorIs(t, err, domain.ErrSubscribeToYourself)

	sub, err := svc.Subscribe(ctx, chef.ID.String(), callerOf(reader), 0)
	require.NoError(t, err)
	assert.Equal(t, "chef", sub.Username)
	assert.True(t, sub.IsSubscribed)
	assert.Empty(t, sub.Recipes)
	assert.Zero(t, sub.RecipesCount)

	_, err = svc.Subscribe(ctx, chef.ID.String(), callerOf(reader), 0)
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)

	_, err = svc.Subscribe(ctx, uuid.NewString(), callerOf(reader), 0)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.Subscribe(ctx, "nope", callerOf(reader), 0)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.Subscribe(ctx, chef.ID.String(), access.Caller{}, 0)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, svc.Unsubscribe(ctx, chef.ID.String(), callerOf(reader)))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, chef.ID.String(), callerOf(reader)), domain.ErrNotSubscribed)
}

func TestRepositoryRejectsSelfSubscription(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	u := testutil.CreateUser(t, db, "narcissus", domain.RoleAuthorized)

	err := repo.Subscribe(context.Background(), u.ID, u.ID)
	assert.ErrorIs(t, err, domain.ErrSubscribeToYourself)
}

func TestGetSubscriptionsLimitsRecipes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	svc := NewSubscriptionService(repo, user.NewUserRepository(db), recipe.NewRecipeRepository(db))
	ctx := context.Background()

	reader := testutil.CreateUser(t, db, "reader", domain.RoleAuthorized)
	chef := testutil.CreateUser(t, db, "chef", domain.RoleAuthorized)
	baker := testutil.CreateUser(t, db, "baker", domain.RoleAuthorized)
	testutil.CreateUser(t, db, "stranger", domain.RoleAuthorized)

	for _, name := range []string{"soup", "stew", "salad"} {
		testutil.CreateRecipe(t, db, chef, testutil.RecipeSpec{Name: name})
	}
	testutil.CreateRecipe(t, db, baker, testutil.RecipeSpec{Name: "bread"})

	_, err := svc.Subscribe(ctx, chef.ID.String(), callerOf(reader), 0)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, baker.ID.String(), callerOf(reader), 0)
	require.NoError(t, err)

	page, err := svc.GetSubscriptions(ctx, callerOf(reader), domain.PaginationRequest{Page: 1, Limit: 10}, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Pagination.Total)
	require.Len(t, page.Results, 2)

	byName := map[string]domain.Subscription{}
	for _, s := range page.Results {
		assert.True(t, s.IsSubscribed)
		byName[s.Username] = s
	}
	assert.Len(t, byName["chef"].Recipes, 2)
	assert.EqualValues(t, 3, byName["chef"].RecipesCount)
	assert.Len(t, byName["baker"].Recipes, 1)
	assert.EqualValues(t, 1, byName["baker"].RecipesCount)

	all, err := svc.GetSubscriptions(ctx, callerOf(reader), domain.PaginationRequest{Page: 1, Limit: 10}, 0)
	require.NoError(t, err)
	for _, s := range all.Results {
		assert.EqualValues(t, len(s.Recipes), s.RecipesCount, s.Username)
	}

	second, err := svc.GetSubscriptions(ctx, callerOf(reader), domain.PaginationRequest{Page: 2, Limit: 1}, 0)
	require.NoError(t, err)
	assert.Len(t, second.Results, 1)
	assert.EqualValues(t, 2, second.Pagination.TotalPages)
}

func TestSubscriptionsCascadeOnUserDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	users := user.NewUserRepository(db)
	ctx := context.Background()

	reader := testutil.CreateUser(t, db, "reader", domain.RoleAuthorized)
	chef := testutil.CreateUser(t, db, "chef", domain.RoleAuthorized)
	require.NoError(t, repo.Subscribe(ctx, reader.ID, chef.ID))

	subscribed, err := repo.SubscribedAuthorIDs(ctx, reader.ID, []uuid.UUID{chef.ID})
	require.NoError(t, err)
	assert.True(t, subscribed[chef.ID])

	require.NoError(t, users.DeleteUser(ctx, chef.ID))

	var count int64
	require.NoError(t, db.Model(&entities.Subscribe{}).Count(&count).Error)
	assert.Zero(t, count)
}
