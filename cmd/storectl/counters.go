package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Print the admin notification counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCounters(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(countersCmd)
}

func runCounters(ctx context.Context) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := st.Counters(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute counters: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	fmt.Printf("Unread dialogs: %d\n", c.UnreadDialogs)
	fmt.Printf("Pending orders: %d\n", c.PendingOrders)
	fmt.Printf("Open dialogs:   %d\n", c.OpenDialogs)
	fmt.Printf("Total orders:   %d\n", c.TotalOrders)

	statuses := make([]string, 0, len(c.OrdersByStatus))
	for s := range c.OrdersByStatus {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Printf("  %-12s %d\n", s, c.OrdersByStatus[s])
	}
	return nil
}
