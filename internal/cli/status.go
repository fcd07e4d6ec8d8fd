package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show checkpoint progress and the failed set",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	cp, err := a.checkpoints.Load(ctx)
	if err != nil {
		slog.Error("Failed to load checkpoint", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Organization:    %s\n", cfg.Org)
	fmt.Printf("Cursor:          %d\n", cp.Cursor)
	fmt.Printf("Completed:       %d\n", len(cp.Completed))
	fmt.Printf("Failed:          %d\n", len(cp.Failed))
	fmt.Printf("Total processed: %d\n", cp.TotalProcessed)
	if !cp.LastRun.IsZero() {
		fmt.Printf("Last run:        %s\n", cp.LastRun.Format(time.RFC3339))
	}

	if len(cp.Failed) == 0 {
		return
	}

	ids := make([]string, 0, len(cp.Failed))
	for id := range cp.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "REPOSITORY\tFAILED AT")
	for _, id := range ids {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", id, cp.Failed[id].Format(time.RFC3339))
	}
	_ = w.Flush()
}
