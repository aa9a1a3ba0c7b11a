package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/access"
	"foodgram/pkg/jwt"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Logout(ctx context.Context, token string) error
		Me(ctx context.Context, caller access.Caller) (domain.User, error)
		SetPassword(ctx context.Context, caller access.Caller, req domain.SetPasswordRequest) error
		GetUsers(ctx context.Context, caller access.Caller, p domain.PaginationRequest) (domain.Page[domain.User], error)
		GetUser(ctx context.Context, userID string, caller access.Caller) (domain.User, error)
		DeleteUser(ctx context.Context, userID string, caller access.Caller) error
	}

	SubscriptionChecker interface {
		SubscribedAuthorIDs(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	}

	userService struct {
		userRepository UserRepository
		subscriptions  SubscriptionChecker
		jwtService     jwt.JWTService
		blacklist      jwt.TokenBlacklist
	}
)

func NewUserService(
	userRepository UserRepository,
	subscriptions SubscriptionChecker,
	jwtService jwt.JWTService,
	blacklist jwt.TokenBlacklist,
) UserService {
	return &userService{
		userRepository: userRepository,
		subscriptions:  subscriptions,
		jwtService:     jwtService,
		blacklist:      blacklist,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error) {
	emailTaken, usernameTaken, err := s.userRepository.CheckUserExists(ctx, req.Email, req.Username)
	if err != nil {
		return domain.User{}, err
	}
	if emailTaken {
		return domain.User{}, domain.ErrEmailAlreadyExists
	}
	if usernameTaken {
		return domain.User{}, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := &entities.User{
		Email:     strings.ToLower(req.Email),
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
		Role:      domain.RoleAuthorized,
	}
	if err := s.userRepository.RegisterUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return toUser(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{Token: token}, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *userService) Logout(ctx context.Context, token string) error {
	expiry, err := s.jwtService.GetTokenExpiry(token)
	if err != nil {
		return err
	}
	return s.blacklist.Revoke(ctx, token, time.Until(expiry))
}

func (s *userService) Me(ctx context.Context, caller access.Caller) (domain.User, error) {
	id, err := callerID(caller)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return toUser(user, false), nil
}

func (s *userService) SetPassword(ctx context.Context, caller access.Caller, req domain.SetPasswordRequest) error {
	id, err := callerID(caller)
	if err != nil {
		return err
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, id, string(hash))
}

func (s *userService) GetUsers(ctx context.Context, caller access.Caller, p domain.PaginationRequest) (domain.Page[domain.User], error) {
	users, total, err := s.userRepository.GetUsers(ctx, p)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}

	subscribed, err := s.subscribedTo(ctx, caller, users)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}

	results := make([]domain.User, 0, len(users))
	for _, u := range users {
		results = append(results, toUser(u, subscribed[u.ID]))
	}
	return domain.Page[domain.User]{
		Results:    results,
		Pagination: domain.NewPaginationResponse(p, total),
	}, nil
}

func (s *userService) GetUser(ctx context.Context, userID string, caller access.Caller) (domain.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.User{}, domain.ErrUserNotFound
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	subscribed, err := s.subscribedTo(ctx, caller, []*entities.User{user})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(user, subscribed[user.ID]), nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string, caller access.Caller) error {
	if !caller.Authenticated() || !domain.IsAdmin(caller.Role) {
		return domain.ErrUserNotAllowed
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	return s.userRepository.DeleteUser(ctx, id)
}

func (s *userService) subscribedTo(ctx context.Context, caller access.Caller, users []*entities.User) (map[uuid.UUID]bool, error) {
	if !caller.Authenticated() {
		return map[uuid.UUID]bool{}, nil
	}
	viewerID, err := callerID(caller)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return s.subscriptions.SubscribedAuthorIDs(ctx, viewerID, ids)
}

func toUser(u *entities.User, subscribed bool) domain.User {
	return domain.User{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func callerID(caller access.Caller) (uuid.UUID, error) {
	if !caller.Authenticated() {
		return uuid.Nil, domain.ErrAuthenticationNeeded
	}
	id, err := uuid.Parse(caller.ID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}
