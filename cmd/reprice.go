package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var repriceCmd = &cobra.Command{
	Use:   "reprice",
	Short: "Increase prices for scarce products",
	Long: `Increase the price by 10% for every product whose stock is less
than 30% above its reorder point (stock < reorderPoint * 1.3).

Order lines keep the price they were created with, so historical
orders are unaffected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		rows, err := store.RepriceScarceProducts(ctx)
		if err != nil {
			return err
		}

		color.Green("✅ Updated prices of %d products", rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(repriceCmd)
}
