package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var failuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "List every recorded failure with its error",
	Run:   runFailures,
}

func init() {
	rootCmd.AddCommand(failuresCmd)
}

func runFailures(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	records, err := a.ledger.LoadAll(ctx)
	if err != nil {
		slog.Error("Failed to load failure ledger", "error", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Println("No failures recorded")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "REPOSITORY\tWHEN\tERROR")
	for _, rec := range records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", rec.Repository, rec.Timestamp.Format(time.RFC3339), rec.Error)
	}
	_ = w.Flush()
}
