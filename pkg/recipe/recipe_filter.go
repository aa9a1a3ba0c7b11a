package recipe

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodgram/domain"
)

// filterScopes turns a RecipeFilter into gorm scopes. Tag slugs combine
// with OR; every other condition narrows the set further.
func filterScopes(f domain.RecipeFilter) ([]func(*gorm.DB) *gorm.DB, error) {
	var scopes []func(*gorm.DB) *gorm.DB

	if len(f.Tags) > 0 {
		scopes = append(scopes, withTagSlugs(f.Tags))
	}

	if f.AuthorID != "" {
		authorID, err := uuid.Parse(f.AuthorID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("recipes.author_id = ?", authorID)
		})
	}

	if f.OnlyFavorited() || f.OnlyInShoppingCart() {
		viewerID, err := uuid.Parse(f.ViewerID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		if f.OnlyFavorited() {
			scopes = append(scopes, linkedTo("favorite_recipes", viewerID))
		}
		if f.OnlyInShoppingCart() {
			scopes = append(scopes, linkedTo("shopping_carts", viewerID))
		}
	}

	return scopes, nil
}

func withTagSlugs(slugs []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", slugs)
		return db.Where("recipes.id IN (?)", sub)
	}
}

func linkedTo(table string, userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table(table).
			Select("recipe_id").
			Where("user_id = ?", userID)
		return db.Where("recipes.id IN (?)", sub)
	}
}
