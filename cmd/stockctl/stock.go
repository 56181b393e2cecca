package main

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ghuser/stockkeeper/services/inventory/application/services"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
)

type stockItemView struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	Quantity         decimal.Decimal `json:"quantity"`
	MinimumThreshold decimal.Decimal `json:"minimum_threshold"`
	OptimalThreshold decimal.Decimal `json:"optimal_threshold"`
	BelowMinimum     bool            `json:"below_minimum"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func viewStockItem(item *models.StockItem) stockItemView {
	return stockItemView{
		ID:               item.ID.String(),
		Name:             item.Name,
		Unit:             item.Unit,
		Quantity:         item.Quantity,
		MinimumThreshold: item.MinimumThreshold,
		OptimalThreshold: item.OptimalThreshold,
		BelowMinimum:     item.IsBelowMinimum(),
		UpdatedAt:        item.UpdatedAt,
	}
}

func newStockCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Take in and inspect stock items",
	}
	cmd.AddCommand(newStockGetCommand(opts), newStockCreateCommand(opts))
	return cmd
}

func newStockGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <item-id>",
		Short: "Print the last committed level of a stock item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("item-id", args[0])
			if err != nil {
				return err
			}
			return opts.withBackend(cmd.Context(), func(b *backend) error {
				item, err := b.Engine.GetStockItem(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), viewStockItem(item))
			})
		},
	}
}

type stockCreateOptions struct {
	Name, Unit                 string
	Quantity, Minimum, Optimal string
	CostRate                   string
	ExpiresAt                  string
}

func newStockCreateCommand(opts *rootOptions) *cobra.Command {
	o := &stockCreateOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Take a new stock item into the ledger",
		Example: `  stockctl stock create --name "Cocoa Butter" --unit kg --quantity 200 \
    --minimum 50 --optimal 400 --cost-rate 7.25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := opts.actor()
			if err != nil {
				return err
			}
			p := models.NewStockItemParams{Name: o.Name, Unit: o.Unit}
			for _, f := range []struct {
				flag, val string
				dst       *decimal.Decimal
			}{
				{"quantity", o.Quantity, &p.Quantity},
				{"minimum", o.Minimum, &p.MinimumThreshold},
				{"optimal", o.Optimal, &p.OptimalThreshold},
				{"cost-rate", o.CostRate, &p.CostRate},
			} {
				if *f.dst, err = parseDecimal(f.flag, f.val); err != nil {
					return err
				}
			}
			if o.ExpiresAt != "" {
				at, err := time.Parse(time.RFC3339, o.ExpiresAt)
				if err != nil {
					return usageErrorf("--expires-at must be RFC 3339: %v", err)
				}
				p.ExpiresAt = &at
			}
			return opts.withBackend(cmd.Context(), func(b *backend) error {
				item, err := b.Engine.CreateStockItem(cmd.Context(), actor, p)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), viewStockItem(item))
			})
		},
	}
	cmd.Flags().StringVar(&o.Name, "name", "", "item name")
	cmd.Flags().StringVar(&o.Unit, "unit", "", "unit of measure")
	cmd.Flags().StringVar(&o.Quantity, "quantity", "0", "opening quantity")
	cmd.Flags().StringVar(&o.Minimum, "minimum", "0", "minimum threshold")
	cmd.Flags().StringVar(&o.Optimal, "optimal", "0", "optimal threshold")
	cmd.Flags().StringVar(&o.CostRate, "cost-rate", "0", "cost per unit")
	cmd.Flags().StringVar(&o.ExpiresAt, "expires-at", "", "expiry time (RFC 3339)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("unit")
	return cmd
}

func newAdjustCommand(opts *rootOptions) *cobra.Command {
	var delta, reason string
	cmd := &cobra.Command{
		Use:     "adjust <item-id>",
		Short:   "Apply a signed correction to a stock item",
		Example: `  stockctl adjust 123e4567-e89b-12d3-a456-426614174000 --delta -30 --reason spoilage`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("item-id", args[0])
			if err != nil {
				return err
			}
			actor, err := opts.actor()
			if err != nil {
				return err
			}
			d, err := parseDecimal("delta", delta)
			if err != nil {
				return err
			}
			return opts.withBackend(cmd.Context(), func(b *backend) error {
				res, err := b.Engine.AdjustStock(cmd.Context(), services.AdjustStockInput{
					ItemID: id,
					Delta:  d,
					Reason: reason,
					Actor:  actor,
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), struct {
					Item        stockItemView   `json:"item"`
					OldQuantity decimal.Decimal `json:"old_quantity"`
					AuditID     string          `json:"audit_id"`
				}{viewStockItem(res.Item), res.OldQuantity, res.Audit.ID.String()})
			})
		},
	}
	cmd.Flags().StringVar(&delta, "delta", "", "signed quantity to add (negative removes)")
	cmd.Flags().StringVar(&reason, "reason", "", "why the level is being corrected")
	_ = cmd.MarkFlagRequired("delta")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func parseDecimal(flag, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, usageErrorf("--%s must be a decimal: %v", flag, err)
	}
	if !models.FitsScale(d) {
		return decimal.Zero, usageErrorf("--%s allows at most %d decimal places", flag, models.QuantityScale)
	}
	return d, nil
}
