package recipe

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/logging"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/access"
	"foodgram/pkg/dberr"
)

const imageFolder = "recipes/images"

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, p domain.PaginationRequest) (domain.Page[domain.Recipe], error)
		GetRecipeDetail(ctx context.Context, recipeID string, caller access.Caller) (domain.Recipe, error)
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, caller access.Caller) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, caller access.Caller) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, recipeID string, caller access.Caller) error
		AddFavorite(ctx context.Context, recipeID string, caller access.Caller) (domain.RecipeShort, error)
		RemoveFavorite(ctx context.Context, recipeID string, caller access.Caller) error
		AddToShoppingCart(ctx context.Context, recipeID string, caller access.Caller) (domain.RecipeShort, error)
		RemoveFromShoppingCart(ctx context.Context, recipeID string, caller access.Caller) error
		DownloadShoppingList(ctx context.Context, caller access.Caller) (string, error)
		SendShoppingList(ctx context.Context, caller access.Caller) error
	}

	// SubscriptionChecker answers "does user follow these authors" in one
	// query.
	SubscriptionChecker interface {
		SubscribedAuthorIDs(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	}

	UserReader interface {
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		favorites        LinkRepository
		shoppingCart     LinkRepository
		subscriptions    SubscriptionChecker
		users            UserReader
		s3               storage.AwsS3
		mailer           mailing.Mailer
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	favorites LinkRepository,
	shoppingCart LinkRepository,
	subscriptions SubscriptionChecker,
	users UserReader,
	s3 storage.AwsS3,
	mailer mailing.Mailer,
) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		favorites:        favorites,
		shoppingCart:     shoppingCart,
		subscriptions:    subscriptions,
		users:            users,
		s3:               s3,
		mailer:           mailer,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, p domain.PaginationRequest) (domain.Page[domain.Recipe], error) {
	recipes, total, err := s.recipeRepository.GetRecipes(ctx, filter, p)
	if err != nil {
		return domain.Page[domain.Recipe]{}, err
	}

	results, err := s.toRecipes(ctx, recipes, access.Caller{ID: filter.ViewerID})
	if err != nil {
		return domain.Page[domain.Recipe]{}, err
	}

	return domain.Page[domain.Recipe]{
		Results:    results,
		Pagination: domain.NewPaginationResponse(p, total),
	}, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, caller access.Caller) (domain.Recipe, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	return s.toRecipe(ctx, recipe, caller)
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, caller access.Caller) (domain.Recipe, error) {
	authorID, err := callerID(caller)
	if err != nil {
		return domain.Recipe{}, err
	}

	amounts, tagIDs, err := composition(req.Ingredients, req.Tags)
	if err != nil {
		return domain.Recipe{}, err
	}

	imageKey, err := s.uploadImage(ctx, req.Image)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe := &entities.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       s.s3.GetPublicLinkKey(imageKey),
		CookingTime: req.CookingTime,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, amounts, tagIDs); err != nil {
		s.deleteImage(ctx, imageKey)
		return domain.Recipe{}, err
	}

	return s.reload(ctx, recipe.ID, caller)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, caller access.Caller) (domain.Recipe, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	if !access.CanModify(caller, recipe.AuthorID.String()) {
		return domain.Recipe{}, domain.ErrUnauthorizedRecipeAccess
	}

	amounts, tagIDs, err := composition(req.Ingredients, req.Tags)
	if err != nil {
		return domain.Recipe{}, err
	}

	oldImageKey := ""
	newImageKey := ""
	if req.Image != "" {
		newImageKey, err = s.uploadImage(ctx, req.Image)
		if err != nil {
			return domain.Recipe{}, err
		}
		oldImageKey = s.s3.GetObjectKeyFromLink(recipe.Image)
		recipe.Image = s.s3.GetPublicLinkKey(newImageKey)
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	recipe.UpdatedAt = time.Now()
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, amounts, tagIDs); err != nil {
		s.deleteImage(ctx, newImageKey)
		return domain.Recipe{}, err
	}
	s.deleteImage(ctx, oldImageKey)

	return s.reload(ctx, recipe.ID, caller)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, caller access.Caller) error {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if !access.CanModify(caller, recipe.AuthorID.String()) {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		return err
	}
	s.deleteImage(ctx, s.s3.GetObjectKeyFromLink(recipe.Image))
	return nil
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID string, caller access.Caller) (domain.RecipeShort, error) {
	return s.addLink(ctx, s.favorites, recipeID, caller, domain.ErrAlreadyFavorited)
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID string, caller access.Caller) error {
	return s.removeLink(ctx, s.favorites, recipeID, caller, domain.ErrNotFavorited)
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, recipeID string, caller access.Caller) (domain.RecipeShort, error) {
	return s.addLink(ctx, s.shoppingCart, recipeID, caller, domain.ErrAlreadyInShoppingCart)
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, recipeID string, caller access.Caller) error {
	return s.removeLink(ctx, s.shoppingCart, recipeID, caller, domain.ErrNotInShoppingCart)
}

func (s *recipeService) DownloadShoppingList(ctx context.Context, caller access.Caller) (string, error) {
	userID, err := callerID(caller)
	if err != nil {
		return "", err
	}

	count, err := s.shoppingCart.CountByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", domain.ErrShoppingCartEmpty
	}

	items, err := s.recipeRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderShoppingList(items), nil
}

func (s *recipeService) SendShoppingList(ctx context.Context, caller access.Caller) error {
	list, err := s.DownloadShoppingList(ctx, caller)
	if err != nil {
		return err
	}

	userID, _ := callerID(caller)
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	return s.mailer.SendMail(user.Email, "Your Foodgram shopping list",
		"Hi "+user.FirstName+",\n\nyour shopping list is attached.\n",
		mailing.Attachment{
			Filename:    domain.ShoppingListFilename,
			ContentType: "text/plain; charset=utf-8",
			Content:     []byte(list),
		},
	)
}

func (s *recipeService) addLink(ctx context.Context, links LinkRepository, recipeID string, caller access.Caller, exists error) (domain.RecipeShort, error) {
	userID, err := callerID(caller)
	if err != nil {
		return domain.RecipeShort{}, err
	}
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return domain.RecipeShort{}, err
	}

	err = links.Add(ctx, userID, recipe.ID)
	switch {
	case err == nil:
		return toRecipeShort(recipe), nil
	case errors.Is(err, errLinkExists):
		return domain.RecipeShort{}, exists
	case dberr.IsForeignKeyViolation(err):
		return domain.RecipeShort{}, domain.ErrRecipeNotFound
	default:
		return domain.RecipeShort{}, err
	}
}

func (s *recipeService) removeLink(ctx context.Context, links LinkRepository, recipeID string, caller access.Caller, absent error) error {
	userID, err := callerID(caller)
	if err != nil {
		return err
	}
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}

	removed, err := links.Remove(ctx, userID, recipe.ID)
	if err != nil {
		return err
	}
	if !removed {
		return absent
	}
	return nil
}

func (s *recipeService) getRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	id, err := uuid.Parse(recipeID)
	if err != nil {
		// a malformed id cannot name an existing recipe
		return nil, domain.ErrRecipeNotFound
	}
	return s.recipeRepository.GetRecipeByID(ctx, id)
}

func (s *recipeService) reload(ctx context.Context, id uuid.UUID, caller access.Caller) (domain.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	return s.toRecipe(ctx, recipe, caller)
}

func (s *recipeService) uploadImage(ctx context.Context, payload string) (string, error) {
	data, fileName, err := storage.DecodeBase64Image(payload)
	if err != nil {
		return "", domain.ErrInvalidImage
	}

	key, err := s.s3.UploadFile(ctx, fileName, data, imageFolder, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return "", domain.ErrInvalidImage
		}
		return "", err
	}
	return key, nil
}

// deleteImage is best effort: an orphaned object is logged, never returned.
func (s *recipeService) deleteImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.s3.DeleteFile(ctx, key); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("failed to delete recipe image")
	}
}

func (s *recipeService) toRecipe(ctx context.Context, recipe *entities.Recipe, caller access.Caller) (domain.Recipe, error) {
	out, err := s.toRecipes(ctx, []*entities.Recipe{recipe}, caller)
	if err != nil {
		return domain.Recipe{}, err
	}
	return out[0], nil
}

// toRecipes maps entities to responses and fills the viewer-specific flags
// with one query per flag.
func (s *recipeService) toRecipes(ctx context.Context, recipes []*entities.Recipe, caller access.Caller) ([]domain.Recipe, error) {
	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	subscribed := map[uuid.UUID]bool{}

	if caller.Authenticated() && len(recipes) > 0 {
		viewerID, err := callerID(caller)
		if err != nil {
			return nil, err
		}

		recipeIDs := make([]uuid.UUID, len(recipes))
		authorIDs := make([]uuid.UUID, len(recipes))
		for i, r := range recipes {
			recipeIDs[i] = r.ID
			authorIDs[i] = r.AuthorID
		}

		if favorited, err = s.favorites.LinkedRecipeIDs(ctx, viewerID, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = s.shoppingCart.LinkedRecipeIDs(ctx, viewerID, recipeIDs); err != nil {
			return nil, err
		}
		if subscribed, err = s.subscriptions.SubscribedAuthorIDs(ctx, viewerID, authorIDs); err != nil {
			return nil, err
		}
	}

	out := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		item := domain.Recipe{
			ID:               r.ID.String(),
			Tags:             make([]domain.Tag, 0, len(r.Tags)),
			Ingredients:      make([]domain.RecipeIngredient, 0, len(r.IngredientAmounts)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			PubDate:          r.PubDate,
		}
		if r.Author != nil {
			item.Author = domain.User{
				ID:           r.Author.ID.String(),
				Email:        r.Author.Email,
				Username:     r.Author.Username,
				FirstName:    r.Author.FirstName,
				LastName:     r.Author.LastName,
				IsSubscribed: subscribed[r.AuthorID],
			}
		}
		for _, t := range r.Tags {
			item.Tags = append(item.Tags, domain.Tag{
				ID:    t.ID.String(),
				Name:  t.Name,
				Color: t.Color,
				Slug:  t.Slug,
			})
		}
		for _, a := range r.IngredientAmounts {
			ri := domain.RecipeIngredient{Amount: a.Amount}
			if a.Ingredient != nil {
				ri.ID = a.Ingredient.ID.String()
				ri.Name = a.Ingredient.Name
				ri.MeasurementUnit = a.Ingredient.MeasurementUnit
			}
			item.Ingredients = append(item.Ingredients, ri)
		}
		out = append(out, item)
	}
	return out, nil
}

func toRecipeShort(r *entities.Recipe) domain.RecipeShort {
	return domain.RecipeShort{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// ToRecipeShorts is shared with the subscriptions listing.
func ToRecipeShorts(recipes []*entities.Recipe) []domain.RecipeShort {
	out := make([]domain.RecipeShort, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, toRecipeShort(r))
	}
	return out
}

func composition(ingredients []domain.IngredientAmountRequest, tags []string) ([]entities.IngredientAmount, []uuid.UUID, error) {
	amounts := make([]entities.IngredientAmount, 0, len(ingredients))
	for _, in := range ingredients {
		id, err := uuid.Parse(in.ID)
		if err != nil {
			return nil, nil, domain.ErrParseUUID
		}
		amounts = append(amounts, entities.IngredientAmount{IngredientID: id, Amount: in.Amount})
	}

	tagIDs := make([]uuid.UUID, 0, len(tags))
	for _, t := range tags {
		id, err := uuid.Parse(t)
		if err != nil {
			return nil, nil, domain.ErrParseUUID
		}
		tagIDs = append(tagIDs, id)
	}
	return amounts, tagIDs, nil
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
