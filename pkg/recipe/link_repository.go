package recipe

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodgram/pkg/dberr"
)

var errLinkExists = errors.New("link already exists")

type (
	// recipeLink is a row tying a user to a recipe: favorites and the
	// shopping cart share this shape.
	recipeLink[T any] interface {
		*T
		SetPair(userID, recipeID uuid.UUID)
	}

	LinkRepository interface {
		Add(ctx context.Context, userID, recipeID uuid.UUID) error
		Remove(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
		Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
		LinkedRecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	}

	linkRepository[T any, PT recipeLink[T]] struct {
		db *gorm.DB
	}
)

func NewLinkRepository[T any, PT recipeLink[T]](db *gorm.DB) LinkRepository {
	return &linkRepository[T, PT]{db: db}
}

func (r *linkRepository[T, PT]) Add(ctx context.Context, userID, recipeID uuid.UUID) error {
	row := PT(new(T))
	row.SetPair(userID, recipeID)

	err := r.db.WithContext(ctx).Create(row).Error
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err):
		return errLinkExists
	default:
		return err
	}
}

func (r *linkRepository[T, PT]) Remove(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(PT(new(T)))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *linkRepository[T, PT]) Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(PT(new(T))).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

func (r *linkRepository[T, PT]) LinkedRecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	linked := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return linked, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(PT(new(T))).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		linked[id] = true
	}
	return linked, nil
}

func (r *linkRepository[T, PT]) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(PT(new(T))).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
