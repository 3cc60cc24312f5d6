package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Apply the warehouse schema",
	Long: `Create the Customer, Product, CustomerOrder and OrderLine tables
if they do not exist yet. Applying the schema twice is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ApplySchema(ctx); err != nil {
			return err
		}

		color.Green("✅ Warehouse schema applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
