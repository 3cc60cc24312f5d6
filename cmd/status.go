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

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show warehouse row counts",
	Long: `Show the number of rows in each warehouse table and whether the
seed command would generate data or skip.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		counts := make(map[string]int, len(types.Tables))
		for _, name := range types.Tables {
			count, err := store.CountRows(ctx, name)
			if err != nil {
				return err
			}
			counts[name] = count
		}
		if err := renderCountTable(os.Stdout, counts); err != nil {
			return err
		}

		fmt.Println()
		if counts["Customer"] == 0 && counts["Product"] == 0 {
			color.Yellow("🌱 Warehouse is empty; 'databaser seed' will generate data.")
		} else {
			color.Green("📦 Data present; 'databaser seed' will be a no-op.")
		}
		return nil
	},
}

func renderCountTable(w io.Writer, counts map[string]int) error {
	table := tablewriter.NewWriter(w)
	table.Header("Table", "Rows")
	for _, name := range types.Tables {
		if err := table.Append([]string{name, fmt.Sprintf("%d", counts[name])}); err != nil {
			return err
		}
	}
	return table.Render()
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
