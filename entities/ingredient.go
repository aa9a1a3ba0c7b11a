package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(_ *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	Color string    `gorm:"type:varchar(7);uniqueIndex;default:'#00ff7f'" json:"color"`
	Slug  string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
}

func (t *Tag) BeforeCreate(_ *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
