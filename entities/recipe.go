package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Image       string    `json:"image"`
	CookingTime int       `gorm:"not null;check:cooking_time BETWEEN 1 AND 300" json:"cooking_time"`
	PubDate     time.Time `gorm:"type:timestamp;not null;index;<-:create" json:"pub_date"`

	Author            *User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	IngredientAmounts []*IngredientAmount `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Tags              []*Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Timestamp
}

func (r *Recipe) BeforeCreate(_ *gorm.DB) error {
	ensureID(&r.ID)
	if r.PubDate.IsZero() {
		r.PubDate = time.Now()
	}
	return nil
}

type IngredientAmount struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ingredient_amount_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ingredient_amount_recipe_ingredient" json:"ingredient_id"`
	Amount       int       `gorm:"not null;check:amount BETWEEN 1 AND 3000" json:"amount"`

	Recipe     *Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

func (a *IngredientAmount) BeforeCreate(_ *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
