package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vietddude/orglens/internal/index"
)

var fetchIndexCmd = &cobra.Command{
	Use:   "fetch-index",
	Short: "Rebuild the master index from the GitHub API",
	Run:   runFetchIndex,
}

func init() {
	rootCmd.AddCommand(fetchIndexCmd)
}

func runFetchIndex(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	idx, err := index.NewBuilder(a.client, a.blobs, a.log).Build(ctx, cfg.Org)
	if err != nil {
		slog.Error("Failed to build master index", "error", err)
		os.Exit(1)
	}

	slog.Info("Master index rebuilt", "org", idx.Organization, "total", idx.TotalRepos)
}
