package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ghuser/stockkeeper/services/inventory/application/services"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
)

func newRecipeCommand(opts *rootOptions) *cobra.Command {
	var name, unit string
	var lines []string
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Register a recipe and its bill of materials",
		Long: `Register a recipe and its bill of materials.

Each --line is ingredient-id=quantity-per-unit; lines keep the order given.`,
		Example: `  stockctl recipe --name "Dark Chocolate" --unit bar \
    --line 123e4567-e89b-12d3-a456-426614174000=5 --line 9b2f6c1e-0d1a-4d7e-8a53-2f0f1f6f9b11=2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recipe := &models.Recipe{ID: uuid.New(), Name: name, OutputUnit: unit, CreatedAt: time.Now().UTC()}
			bom, err := parseBOM(recipe.ID, lines)
			if err != nil {
				return err
			}
			return opts.withBackend(cmd.Context(), func(b *backend) error {
				if err := b.Recipes.SaveRecipe(cmd.Context(), recipe, bom); err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"id":    recipe.ID,
					"name":  recipe.Name,
					"unit":  recipe.OutputUnit,
					"lines": len(bom),
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "recipe name")
	cmd.Flags().StringVar(&unit, "unit", "unit", "output unit of measure")
	cmd.Flags().StringArrayVar(&lines, "line", nil, "ingredient-id=quantity-per-unit (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("line")
	return cmd
}

func parseBOM(recipeID uuid.UUID, specs []string) ([]models.BOMLine, error) {
	out := make([]models.BOMLine, 0, len(specs))
	for i, s := range specs {
		id, qty, ok := strings.Cut(s, "=")
		if !ok {
			return nil, usageErrorf("--line %q: want ingredient-id=quantity", s)
		}
		ingredient, err := parseID(fmt.Sprintf("--line %d ingredient", i+1), id)
		if err != nil {
			return nil, err
		}
		perUnit, err := parseDecimal("line", qty)
		if err != nil {
			return nil, err
		}
		out = append(out, models.BOMLine{
			RecipeID:        recipeID,
			Position:        i + 1,
			IngredientID:    ingredient,
			QuantityPerUnit: perUnit,
		})
	}
	return out, nil
}

func newProduceCommand(opts *rootOptions) *cobra.Command {
	var quantity string
	cmd := &cobra.Command{
		Use:     "produce <recipe-id>",
		Short:   "Produce a batch, consuming the recipe's ingredients",
		Example: `  stockctl produce 550e8400-e29b-41d4-a716-446655440000 --quantity 50`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipeID, err := parseID("recipe-id", args[0])
			if err != nil {
				return err
			}
			actor, err := opts.actor()
			if err != nil {
				return err
			}
			qty, err := parseDecimal("quantity", quantity)
			if err != nil {
				return err
			}
			return opts.withBackend(cmd.Context(), func(b *backend) error {
				res, err := b.Engine.CreateProductionBatch(cmd.Context(), services.CreateBatchInput{
					RecipeID:   recipeID,
					Quantity:   qty,
					ProducedBy: actor,
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), viewBatch(res))
			})
		},
	}
	cmd.Flags().StringVar(&quantity, "quantity", "", "units of output to produce")
	_ = cmd.MarkFlagRequired("quantity")
	return cmd
}

type consumptionView struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Cost         decimal.Decimal `json:"cost"`
}

type batchView struct {
	ID           string            `json:"id"`
	BatchNumber  string            `json:"batch_number"`
	Quantity     decimal.Decimal   `json:"quantity"`
	Cost         decimal.Decimal   `json:"cost"`
	UnitCost     decimal.Decimal   `json:"unit_cost"`
	Consumptions []consumptionView `json:"consumptions"`
	AuditID      string            `json:"audit_id"`
}

func viewBatch(res *services.CreateBatchResult) batchView {
	v := batchView{
		ID:          res.Batch.ID.String(),
		BatchNumber: res.Batch.BatchNumber,
		Quantity:    res.Batch.Quantity,
		Cost:        res.Batch.Cost,
		UnitCost:    res.Batch.UnitCost(),
		AuditID:     res.Audit.ID.String(),
	}
	for _, c := range res.Consumptions {
		v.Consumptions = append(v.Consumptions, consumptionView{
			IngredientID: c.IngredientID.String(),
			Quantity:     c.Quantity,
			Cost:         c.Cost,
		})
	}
	return v
}

func newSellCommand(opts *rootOptions) *cobra.Command {
	var quantity, buyer string
	cmd := &cobra.Command{
		Use:     "sell <batch-id>",
		Short:   "Fulfil a sale from a production batch",
		Example: `  stockctl sell 9b2f6c1e-0d1a-4d7e-8a53-2f0f1f6f9b11 --quantity 10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batchID, err := parseID("batch-id", args[0])
			if err != nil {
				return err
			}
			seller, err := opts.actor()
			if err != nil {
				return err
			}
			qty, err := parseDecimal("quantity", quantity)
			if err != nil {
				return err
			}
			var buyerID uuid.NullUUID
			if buyer != "" {
				id, err := parseID("--buyer", buyer)
				if err != nil {
					return err
				}
				buyerID = uuid.NullUUID{UUID: id, Valid: true}
			}
			return opts.withBackend(cmd.Context(), func(b *backend) error {
				res, err := b.Engine.FulfillSale(cmd.Context(), services.FulfillSaleInput{
					BatchID:  batchID,
					Quantity: qty,
					SellerID: seller,
					BuyerID:  buyerID,
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"sale_id":   res.Sale.ID,
					"batch_id":  res.Batch.ID,
					"quantity":  res.Sale.Quantity,
					"remaining": res.Batch.Remaining,
					"status":    res.Batch.Status,
					"audit_id":  res.Audit.ID,
				})
			})
		},
	}
	cmd.Flags().StringVar(&quantity, "quantity", "", "units sold")
	cmd.Flags().StringVar(&buyer, "buyer", "", "buyer id")
	_ = cmd.MarkFlagRequired("quantity")
	return cmd
}
