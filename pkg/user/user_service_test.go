package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/domain"
	"foodgram/internal/testutil"
	"foodgram/pkg/access"
	"foodgram/pkg/jwt"
	"foodgram/pkg/subscription"
)

type userFixture struct {
	db        *gorm.DB
	svc       UserService
	jwt       jwt.JWTService
	blacklist *testutil.MemoryBlacklist
	subs      subscription.SubscriptionRepository
}

func newUserFixture(t *testing.T) *userFixture {
	db := testutil.NewDB(t)
	subs := subscription.NewSubscriptionRepository(db)
	jwtService := jwt.NewJWTService("test-secret", time.Hour)
	blacklist := testutil.NewMemoryBlacklist()
	return &userFixture{
		db:        db,
		svc:       NewUserService(NewUserRepository(db), subs, jwtService, blacklist),
		jwt:       jwtService,
		blacklist: blacklist,
		subs:      subs,
	}
}

func registerRequest(email, username string) domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:     email,
		Username:  username,
		FirstName: "Ann",
		LastName:  "Cook",
		Password:  "s3cret-pass",
	}
}

func TestRegister(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, registerRequest("Ann@Example.com", "ann"))
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.False(t, u.IsSubscribed)

	stored, err := NewUserRepository(f.db).GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAuthorized, stored.Role)
	assert.NotEqual(t, "s3cret-pass", stored.Password)

	_, err = f.svc.Register(ctx, registerRequest("ANN@example.com", "other"))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = f.svc.Register(ctx, registerRequest("new@example.com", "ann"))
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestLoginAndLogout(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, registerRequest("ann@example.com", "ann"))
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, domain.LoginRequest{Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)

	_, err = f.svc.Login(ctx, domain.LoginRequest{Email: "ghost@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)

	res, err := f.svc.Login(ctx, domain.LoginRequest{Email: "ANN@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	id, role, err := f.jwt.GetUserIDByToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, id)
	assert.Equal(t, domain.RoleAuthorized, role)

	revoked, err := f.blacklist.IsRevoked(ctx, res.Token)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, f.svc.Logout(ctx, res.Token))

	revoked, err = f.blacklist.IsRevoked(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestSetPassword(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, registerRequest("ann@example.com", "ann"))
	require.NoError(t, err)
	caller := access.Caller{ID: u.ID, Role: domain.RoleAuthorized}

	err = f.svc.SetPassword(ctx, caller, domain.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "another-pass"})
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)

	require.NoError(t, f.svc.SetPassword(ctx, caller, domain.SetPasswordRequest{
		CurrentPassword: "s3cret-pass",
		NewPassword:     "another-pass",
	}))

	_, err = f.svc.Login(ctx, domain.LoginRequest{Email: "ann@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
	_, err = f.svc.Login(ctx, domain.LoginRequest{Email: "ann@example.com", Password: "another-pass"})
	assert.NoError(t, err)

	err = f.svc.SetPassword(ctx, access.Caller{}, domain.SetPasswordRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGetUsersMarksSubscriptions(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	viewer := testutil.CreateUser(t, f.db, "viewer", domain.RoleAuthorized)
	chef := testutil.CreateUser(t, f.db, "chef", domain.RoleAuthorized)
	testutil.CreateUser(t, f.db, "baker", domain.RoleAuthorized)
	require.NoError(t, f.subs.Subscribe(ctx, viewer.ID, chef.ID))

	page, err := f.svc.GetUsers(ctx, access.Caller{ID: viewer.ID.String()}, domain.PaginationRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Pagination.Total)

	names := make([]string, 0, len(page.Results))
	for _, u := range page.Results {
		names = append(names, u.Username)
		assert.Equal(t, u.Username == "chef", u.IsSubscribed, u.Username)
	}
	assert.Equal(t, []string{"baker", "chef", "viewer"}, names)

	anon, err := f.svc.GetUser(ctx, chef.ID.String(), access.Caller{})
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)

	seen, err := f.svc.GetUser(ctx, chef.ID.String(), access.Caller{ID: viewer.ID.String()})
	require.NoError(t, err)
	assert.True(t, seen.IsSubscribed)

	_, err = f.svc.GetUser(ctx, "not-a-uuid", access.Caller{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = f.svc.GetUser(ctx, uuid.NewString(), access.Caller{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteUserIsAdminOnly(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, f.db, "admin", domain.RoleAdmin)
	victim := testutil.CreateUser(t, f.db, "victim", domain.RoleAuthorized)
	testutil.CreateRecipe(t, f.db, victim, testutil.RecipeSpec{Name: "stew"})

	err := f.svc.DeleteUser(ctx, admin.ID.String(), access.Caller{ID: victim.ID.String(), Role: domain.RoleAuthorized})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.svc.DeleteUser(ctx, victim.ID.String(), access.Caller{ID: admin.ID.String(), Role: domain.RoleAdmin}))
	assert.ErrorIs(t, f.svc.DeleteUser(ctx, victim.ID.String(), access.Caller{ID: admin.ID.String(), Role: domain.RoleAdmin}), domain.ErrUserNotFound)

	var recipes int64
	require.NoError(t, f.db.Table("recipes").Count(&recipes).Error)
	assert.Zero(t, recipes)
}
