package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vietddude/orglens/internal/core/domain"
)

var resetCheckpointCmd = &cobra.Command{
	Use:   "reset-checkpoint",
	Short: "Discard all progress and start the next run from scratch",
	Run:   runResetCheckpoint,
}

func init() {
	rootCmd.AddCommand(resetCheckpointCmd)
}

func runResetCheckpoint(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	if err := a.checkpoints.Save(ctx, domain.NewCheckpoint()); err != nil {
		slog.Error("Failed to reset checkpoint", "error", err)
		os.Exit(1)
	}

	fmt.Println("Checkpoint reset; the next run starts from the beginning")
}
