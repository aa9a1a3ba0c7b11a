package handlers

import (
	"github.com/gofiber/fiber/v2"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/tag"
)

type (
	ReferenceHandler interface {
		GetTags(c *fiber.Ctx) error
		GetTag(c *fiber.Ctx) error
		GetIngredients(c *fiber.Ctx) error
		GetIngredient(c *fiber.Ctx) error
	}

	referenceHandler struct {
		tagService        tag.TagService
		ingredientService ingredient.IngredientService
	}
)

func NewReferenceHandler(tagService tag.TagService, ingredientService ingredient.IngredientService) ReferenceHandler {
	return &referenceHandler{
		tagService:        tagService,
		ingredientService: ingredientService,
	}
}

func (h *referenceHandler) GetTags(c *fiber.Ctx) error {
	res, err := h.tagService.GetTags(c.UserContext())
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetTags, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *referenceHandler) GetTag(c *fiber.Ctx) error {
	res, err := h.tagService.GetTag(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetTag, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTag)
}

// GetIngredients filters by name prefix, used by the recipe form's
// autocomplete.
func (h *referenceHandler) GetIngredients(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetIngredients(c.UserContext(), c.Query("name"))
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *referenceHandler) GetIngredient(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetIngredient(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, domain.MessageFailedGetIngredient, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredient)
}
