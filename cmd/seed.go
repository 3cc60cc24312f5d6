package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yrgohrm/databaser/internal/seeder"
)

var seedTruncate bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate deterministic fake data",
	Long: `Populate the warehouse with synthetic data: 1000 customers, 1000
products and one order with 1-5 order lines per customer.

Generation only runs when both the Customer and Product tables are
empty; on a non-empty database the command is a no-op. The random
generator uses a fixed seed, so fresh runs produce identical data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if seedTruncate {
			color.Yellow("🗑️  Truncating tables...")
			if err := store.TruncateAll(ctx); err != nil {
				return err
			}
		}

		return seeder.New(store).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().BoolVar(&seedTruncate, "truncate", false, "Clear all warehouse tables before seeding")
}
