package domain

import (
	"strings"

	"github.com/tair/foodgram/pkg/apperror"
)

// Ingredient is a product with its unit of measurement
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:70;not null;uniqueIndex:idx_ingredient_name_unit;index"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:70;not null;uniqueIndex:idx_ingredient_name_unit"`
}

// TableName specifies the table name
func (Ingredient) TableName() string {
	return "ingredients"
}

// Validate checks the name and unit lengths
func (i *Ingredient) Validate() error {
	i.Name = strings.TrimSpace(i.Name)
	i.MeasurementUnit = strings.TrimSpace(i.MeasurementUnit)
	if i.Name == "" || len(i.Name) > 70 {
		return apperror.Validation("ingredient name is required and must be at most 70 characters")
	}
	if i.MeasurementUnit == "" || len(i.MeasurementUnit) > 70 {
		return apperror.Validation("measurement_unit is required and must be at most 70 characters")
	}
	return nil
}
