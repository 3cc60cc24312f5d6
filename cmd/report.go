package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/yrgohrm/databaser/internal/types"
)

var reportPrice float64

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the warehouse reporting queries",
	Long: `Run the reporting queries against a seeded warehouse:
- the number of products costing more than a given price
- the ten customers who have spent the most (quantity times price,
  not counting discounts)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		count, err := store.CountProductsAbove(ctx, reportPrice)
		if err != nil {
			return err
		}
		color.Cyan("💰 There are %d products costing more than %.2f.", count, reportPrice)

		customers, err := store.TopCustomers(ctx, 10)
		if err != nil {
			return err
		}

		fmt.Println()
		color.Cyan("🏆 Best customers by total spend:")
		return renderSpendTable(os.Stdout, customers)
	},
}

func renderSpendTable(w io.Writer, customers []types.CustomerSpend) error {
	table := tablewriter.NewWriter(w)
	table.Header("Rank", "Customer", "Total Spend")
	for i, c := range customers {
		row := []string{
			fmt.Sprintf("%d", i+1),
			c.Name,
			fmt.Sprintf("%.2f", c.Total),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Float64Var(&reportPrice, "price", 50, "Price threshold for the product count report")
}
