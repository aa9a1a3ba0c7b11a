package subscription

import (
	"context"

	"github.com/google/uuid"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/access"
	"foodgram/pkg/recipe"
)

type (
	SubscriptionService interface {
		Subscribe(ctx context.Context, authorID string, caller access.Caller, recipesLimit int) (domain.Subscription, error)
		Unsubscribe(ctx context.Context, authorID string, caller access.Caller) error
		GetSubscriptions(ctx context.Context, caller access.Caller, p domain.PaginationRequest, recipesLimit int) (domain.Page[domain.Subscription], error)
	}

	// AuthorRecipes is the slice of the recipe repository the listing
	// needs.
	AuthorRecipes interface {
		GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	}

	UserReader interface {
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	}

	subscriptionService struct {
		subscriptionRepository SubscriptionRepository
		users                  UserReader
		recipes                AuthorRecipes
	}
)

func NewSubscriptionService(subscriptionRepository SubscriptionRepository, users UserReader, recipes AuthorRecipes) SubscriptionService {
	return &subscriptionService{
		subscriptionRepository: subscriptionRepository,
		users:                  users,
		recipes:                recipes,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, authorID string, caller access.Caller, recipesLimit int) (domain.Subscription, error) {
	userID, author, err := s.resolve(ctx, authorID, caller)
	if err != nil {
		return domain.Subscription{}, err
	}
	if userID == author.ID {
		return domain.Subscription{}, domain.ErrSubscribeToYourself
	}

	if err := s.subscriptionRepository.Subscribe(ctx, userID, author.ID); err != nil {
		return domain.Subscription{}, err
	}
	return s.toSubscription(ctx, author, recipesLimit)
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, authorID string, caller access.Caller) error {
	userID, author, err := s.resolve(ctx, authorID, caller)
	if err != nil {
		return err
	}

	removed, err := s.subscriptionRepository.Unsubscribe(ctx, userID, author.ID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotSubscribed
	}
	return nil
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, caller access.Caller, p domain.PaginationRequest, recipesLimit int) (domain.Page[domain.Subscription], error) {
	userID, err := parseCaller(caller)
	if err != nil {
		return domain.Page[domain.Subscription]{}, err
	}

	authors, total, err := s.subscriptionRepository.GetSubscribedAuthors(ctx, userID, p)
	if err != nil {
		return domain.Page[domain.Subscription]{}, err
	}

	results := make([]domain.Subscription, 0, len(authors))
	for _, author := range authors {
		sub, err := s.toSubscription(ctx, author, recipesLimit)
		if err != nil {
			return domain.Page[domain.Subscription]{}, err
		}
		results = append(results, sub)
	}

	return domain.Page[domain.Subscription]{
		Results:    results,
		Pagination: domain.NewPaginationResponse(p, total),
	}, nil
}

func (s *subscriptionService) resolve(ctx context.Context, authorID string, caller access.Caller) (uuid.UUID, *entities.User, error) {
	userID, err := parseCaller(caller)
	if err != nil {
		return uuid.Nil, nil, err
	}
	id, err := uuid.Parse(authorID)
	if err != nil {
		return uuid.Nil, nil, domain.ErrUserNotFound
	}
	author, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return userID, author, nil
}

// toSubscription is always rendered from the subscriber's side, so
// is_subscribed is true.
func (s *subscriptionService) toSubscription(ctx context.Context, author *entities.User, recipesLimit int) (domain.Subscription, error) {
	recipes, err := s.recipes.GetRecipesByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return domain.Subscription{}, err
	}
	count, err := s.recipes.CountRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return domain.Subscription{}, err
	}

	return domain.Subscription{
		User: domain.User{
			ID:           author.ID.String(),
			Email:        author.Email,
			Username:     author.Username,
			FirstName:    author.FirstName,
			LastName:     author.LastName,
			IsSubscribed: true,
		},
		Recipes:      recipe.ToRecipeShorts(recipes),
		RecipesCount: count,
	}, nil
}

func parseCaller(caller access.Caller) (uuid.UUID, error) {
	if !caller.Authenticated() {
		return uuid.Nil, domain.ErrAuthenticationNeeded
	}
	id, err := uuid.Parse(caller.ID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}
