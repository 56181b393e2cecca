package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/stockkeeper/services/inventory/domain"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
	"github.com/ghuser/stockkeeper/services/inventory/domain/repositories"
)

// ResolveBOM returns the recipe's bill of materials in recipe order. It takes
// no locks; the caller locks the ingredient ids it returns.
//
// A missing or soft-deleted recipe fails with NotFound. A recipe without
// lines, or with a line whose quantity is not positive, fails with
// InvalidRecipe.
func ResolveBOM(ctx context.Context, r repositories.RecipeReader, recipeID uuid.UUID) ([]models.BOMLine, error) {
	recipe, err := r.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if recipe == nil || recipe.IsDeleted() {
		return nil, domain.NewNotFoundError(domain.ResourceRecipe, recipeID)
	}

	lines, err := r.ListRecipeLines(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list recipe lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, &domain.InvalidRecipeError{RecipeID: recipeID, Reason: "recipe has no bill-of-materials lines"}
	}
	for _, l := range lines {
		if !l.QuantityPerUnit.IsPositive() {
			return nil, &domain.InvalidRecipeError{
				RecipeID: recipeID,
				Reason:   fmt.Sprintf("line %d requires a non-positive quantity", l.Position),
			}
		}
	}
	return lines, nil
}

// IngredientIDs returns the ingredient ids referenced by lines.
func IngredientIDs(lines []models.BOMLine) []uuid.UUID {
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.IngredientID
	}
	return ids
}
