package recipe

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/dberr"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, amounts []entities.IngredientAmount, tagIDs []uuid.UUID) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, amounts []entities.IngredientAmount, tagIDs []uuid.UUID) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, p domain.PaginationRequest) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
		GetShoppingList(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, amounts []entities.IngredientAmount, tagIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return saveComposition(tx, recipe.ID, amounts, tagIDs)
	})
	return translateWriteError(err)
}

// UpdateRecipe overwrites the scalar fields and replaces the ingredient
// and tag sets. pub_date and author are never touched.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, amounts []entities.IngredientAmount, tagIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(recipe).
			Omit(clause.Associations).
			Select("Name", "Text", "Image", "CookingTime", "UpdatedAt").
			Updates(recipe)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.IngredientAmount{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		return saveComposition(tx, recipe.ID, amounts, tagIDs)
	})
	return translateWriteError(err)
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entities.Recipe{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("recipes.id = ?", id).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, p domain.PaginationRequest) ([]*entities.Recipe, int64, error) {
	scopes, err := filterScopes(filter)
	if err != nil {
		return nil, 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(scopes...).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recipes []*entities.Recipe
	if err := r.withRelations(r.db.WithContext(ctx)).
		Scopes(scopes...).
		Order("recipes.pub_date DESC").
		Order("recipes.id").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// GetRecipesByAuthor returns the newest recipes first. A limit below one
// returns all of them.
func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error) {
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC").
		Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recipes []*entities.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

func (r *recipeRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.slug")
		}).
		Preload("IngredientAmounts.Ingredient")
}

// saveComposition inserts the ingredient amounts and tag links of a recipe.
// Every referenced ingredient and tag must already exist.
func saveComposition(tx *gorm.DB, recipeID uuid.UUID, amounts []entities.IngredientAmount, tagIDs []uuid.UUID) error {
	ingredientIDs := make([]uuid.UUID, 0, len(amounts))
	seen := make(map[uuid.UUID]bool, len(amounts))
	for _, a := range amounts {
		if seen[a.IngredientID] {
			return domain.ErrDuplicateIngredient
		}
		seen[a.IngredientID] = true
		ingredientIDs = append(ingredientIDs, a.IngredientID)
	}

	if err := ensureAllExist(tx, &entities.Ingredient{}, ingredientIDs, domain.ErrIngredientNotFound); err != nil {
		return err
	}
	if err := ensureAllExist(tx, &entities.Tag{}, tagIDs, domain.ErrTagNotFound); err != nil {
		return err
	}

	if len(amounts) > 0 {
		rows := make([]entities.IngredientAmount, len(amounts))
		for i, a := range amounts {
			rows[i] = entities.IngredientAmount{
				RecipeID:     recipeID,
				IngredientID: a.IngredientID,
				Amount:       a.Amount,
			}
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return err
		}
	}

	if len(tagIDs) > 0 {
		links := make([]map[string]any, len(tagIDs))
		for i, id := range tagIDs {
			links[i] = map[string]any{"recipe_id": recipeID, "tag_id": id}
		}
		if err := tx.Table("recipe_tags").Create(links).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureAllExist(tx *gorm.DB, model any, ids []uuid.UUID, notFound error) error {
	if len(ids) == 0 {
		return nil
	}
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	var count int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(unique)) {
		return notFound
	}
	return nil
}

func translateWriteError(err error) error {
	var domainErr *domain.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &domainErr):
		return err
	case dberr.IsUniqueViolation(err):
		return domain.ErrDuplicateIngredient
	case dberr.IsForeignKeyViolation(err):
		return domain.ErrReferenceNotFound
	case dberr.IsCheckViolation(err):
		return domain.ErrValueOutOfRange
	default:
		return err
	}
}
