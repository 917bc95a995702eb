package cmd

import (
	"MyMedia/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the MyMedia HTTP server",
	Long:  `Run the MyMedia HTTP server, serving the upload, download, streaming and library APIs.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
