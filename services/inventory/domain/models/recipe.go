package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recipe owns a bill of materials. Recipes are managed outside the engine.
type Recipe struct {
	ID         uuid.UUID
	Name       string
	OutputUnit string
	DeletedAt  *time.Time
	CreatedAt  time.Time
}

func (r *Recipe) IsDeleted() bool {
	return r.DeletedAt != nil
}

// BOMLine is one (recipe, ingredient, quantity per output unit) relationship.
type BOMLine struct {
	RecipeID        uuid.UUID
	Position        int
	IngredientID    uuid.UUID
	QuantityPerUnit decimal.Decimal
}
