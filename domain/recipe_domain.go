package domain

import (
	"time"
)

var (
	MessageSuccessGetRecipes         = "success get recipes"
	MessageSuccessGetRecipeDetail    = "success get recipe detail"
	MessageSuccessCreateRecipe       = "recipe created successfully"
	MessageSuccessUpdateRecipe       = "recipe updated successfully"
	MessageSuccessDeleteRecipe       = "recipe deleted successfully"
	MessageSuccessAddFavorite        = "recipe added to favorites"
	MessageSuccessRemoveFavorite     = "recipe removed from favorites"
	MessageSuccessAddShoppingCart    = "recipe added to shopping cart"
	MessageSuccessRemoveShoppingCart = "recipe removed from shopping cart"
	MessageSuccessSendShoppingList   = "shopping list sent"

	MessageFailedGetRecipes         = "failed to get recipes"
	MessageFailedGetRecipeDetail    = "failed to get recipe detail"
	MessageFailedCreateRecipe       = "failed to create recipe"
	MessageFailedUpdateRecipe       = "failed to update recipe"
	MessageFailedDeleteRecipe       = "failed to delete recipe"
	MessageFailedAddFavorite        = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite     = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart    = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart = "failed to remove recipe from shopping cart"
	MessageFailedGetShoppingList    = "failed to get shopping list"
	MessageFailedSendShoppingList   = "failed to send shopping list"

	ErrRecipeNotFound           = NewError(ErrNotFound, "recipe not found")
	ErrUnauthorizedRecipeAccess = NewError(ErrForbidden, "you do not have permission to modify this recipe")
	ErrAlreadyFavorited         = NewError(ErrConflict, "recipe already in favorites")
	ErrNotFavorited             = NewError(ErrBadRequest, "recipe not in favorites")
	ErrAlreadyInShoppingCart    = NewError(ErrConflict, "recipe already in shopping cart")
	ErrNotInShoppingCart        = NewError(ErrBadRequest, "recipe not in shopping cart")
	ErrShoppingCartEmpty        = NewError(ErrBadRequest, "shopping cart is empty")
	ErrDuplicateIngredient      = NewError(ErrConflict, "ingredient listed more than once in recipe")
	ErrInvalidImage             = NewError(ErrValidation, "image must be a base64 encoded png, jpeg, gif or webp")
	ErrValueOutOfRange          = NewError(ErrValidation, "cooking_time or ingredient amount out of range")
	ErrReferenceNotFound        = NewError(ErrNotFound, "referenced ingredient or tag not found")
)

const (
	MinCookingTime = 1
	MaxCookingTime = 300
	MinAmount      = 1
	MaxAmount      = 3000

	ShoppingListFilename = "list_shopping.txt"
)

type (
	IngredientAmountRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"min=1,max=3000"`
	}

	CreateRecipeRequest struct {
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
		Tags        []string                  `json:"tags" validate:"required,min=1,unique,dive,uuid"`
		Image       string                    `json:"image" validate:"required"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"min=1,max=300"`
	}

	// UpdateRecipeRequest replaces ingredients and tags wholesale; an empty
	// image keeps the current one.
	UpdateRecipeRequest struct {
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
		Tags        []string                  `json:"tags" validate:"required,min=1,unique,dive,uuid"`
		Image       string                    `json:"image"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"min=1,max=300"`
	}

	RecipeIngredient struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	Recipe struct {
		ID               string             `json:"id"`
		Tags             []Tag              `json:"tags"`
		Author           User               `json:"author"`
		Ingredients      []RecipeIngredient `json:"ingredients"`
		IsFavorited      bool               `json:"is_favorited"`
		IsInShoppingCart bool               `json:"is_in_shopping_cart"`
		Name             string             `json:"name"`
		Image            string             `json:"image"`
		Text             string             `json:"text"`
		CookingTime      int                `json:"cooking_time"`
		PubDate          time.Time          `json:"pub_date"`
	}

	RecipeShort struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	// RecipeFilter is built from list query parameters. ViewerID is the
	// authenticated caller and is empty for anonymous requests.
	RecipeFilter struct {
		Tags             []string
		AuthorID         string
		IsFavorited      bool
		IsInShoppingCart bool
		ViewerID         string
	}

	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int64  `json:"amount"`
	}
)

// OnlyFavorited reports whether the favorite filter applies. It never
// applies to anonymous callers.
func (f RecipeFilter) OnlyFavorited() bool {
	return f.IsFavorited && f.ViewerID != ""
}

func (f RecipeFilter) OnlyInShoppingCart() bool {
	return f.IsInShoppingCart && f.ViewerID != ""
}
