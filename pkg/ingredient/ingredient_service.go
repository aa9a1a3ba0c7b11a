package ingredient

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"foodgram/domain"
	"foodgram/entities"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, name string) ([]domain.Ingredient, error)
		GetIngredient(ctx context.Context, ingredientID string) (domain.Ingredient, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func (s *ingredientService) GetIngredients(ctx context.Context, name string) ([]domain.Ingredient, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Ingredient, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, toIngredient(i))
	}
	return out, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, ingredientID string) (domain.Ingredient, error) {
	id, err := uuid.Parse(ingredientID)
	if err != nil {
		return domain.Ingredient{}, domain.ErrIngredientNotFound
	}
	i, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		return domain.Ingredient{}, err
	}
	return toIngredient(i), nil
}

func toIngredient(i *entities.Ingredient) domain.Ingredient {
	return domain.Ingredient{
		ID:              i.ID.String(),
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}
