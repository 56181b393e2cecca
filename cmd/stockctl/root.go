package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// rootOptions holds global flags and the backend factory shared by all commands.
type rootOptions struct {
	Actor string
	open  opener
}

// actor parses --actor; an empty flag acts as the system.
func (o *rootOptions) actor() (uuid.NullUUID, error) {
	if o.Actor == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := uuid.Parse(o.Actor)
	if err != nil {
		return uuid.NullUUID{}, usageErrorf("--actor must be a UUID: %v", err)
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

// withBackend opens the backend for one command and closes it afterwards.
func (o *rootOptions) withBackend(ctx context.Context, fn func(*backend) error) error {
	b, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer b.Close() //nolint:errcheck
	return fn(b)
}

func newRootCommand(open opener) *cobra.Command {
	opts := &rootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "stockctl",
		Short: "Operate the stockkeeper inventory ledger",
		Long: `Operate the stockkeeper inventory ledger.

Commands run the same engine as the HTTP API directly against PostgreSQL
(DATABASE_URL) and print their result as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Actor, "actor", "", "actor id recorded in the audit trail (default: system)")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newStockCommand(opts))
	cmd.AddCommand(newAdjustCommand(opts))
	cmd.AddCommand(newRecipeCommand(opts))
	cmd.AddCommand(newProduceCommand(opts))
	cmd.AddCommand(newSellCommand(opts))

	return cmd
}

// usageError marks a mistake in the command line rather than a rejected operation.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func parseID(name, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, usageErrorf("%s must be a UUID: %v", name, err)
	}
	return id, nil
}
