package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DevSymphony/goosectl/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the backend is reachable",
	Run: func(cmd *cobra.Command, _ []string) {
		a, err := newApp()
		if err != nil {
			ui.PrintError(err.Error())
			os.Exit(1)
		}

		if err := a.client.Status(cmd.Context()); err != nil {
			ui.PrintError(err.Error())
			os.Exit(1)
		}
		ui.PrintOK(fmt.Sprintf("Backend is up at %s", a.client.BaseURL()))
	},
}
