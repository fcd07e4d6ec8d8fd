package cli

import (
	"github.com/spf13/cobra"
)

var retryFailedCmd = &cobra.Command{
	Use:   "retry-failed",
	Short: "Reprocess every repository in the failed set",
	Run: func(cmd *cobra.Command, args []string) {
		retryFailed = true
		runClassify(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(retryFailedCmd)
}
