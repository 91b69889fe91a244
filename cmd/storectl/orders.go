package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alextreichler/storefront/internal/models"
)

var ordersUser string

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Inspect the order ledger",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders in ledger order",
	Long: `List all orders, or only those of one customer.

Examples:
  storectl orders list
  storectl orders list --user alice --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrdersList(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd)

	ordersListCmd.Flags().StringVar(&ordersUser, "user", "", "Only list orders of this username")
}

func runOrdersList(ctx context.Context) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var orders []models.Order
	if ordersUser != "" {
		orders, err = st.OrdersForUser(ctx, ordersUser)
	} else {
		orders, err = st.ListOrders(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(orders)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tDATE\tSTATUS\tITEMS\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%.2f\n", o.ID, o.User, o.Date, o.Status, len(o.Items), o.Total)
	}
	return w.Flush()
}
