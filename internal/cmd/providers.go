package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DevSymphony/goosectl/internal/goosed"
	"github.com/DevSymphony/goosectl/internal/ui"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the providers the backend supports",
	Long: `Fetch the provider listing from the backend and print each provider
with its models and the credential keys it requires.

Examples:
  goosectl providers
  goosectl providers --json`,
	Run: runProviders,
}

var providersJSON bool

func init() {
	providersCmd.Flags().BoolVar(&providersJSON, "json", false, "print the listing as JSON")
}

func runProviders(cmd *cobra.Command, _ []string) {
	a, err := newApp()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	providers, err := a.client.ListProviders(cmd.Context())
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	if len(providers) == 0 && !providersJSON {
		ui.PrintWarn("The backend reported no providers")
		return
	}
	if err := printProviders(ui.Out, providers, providersJSON); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

func printProviders(w io.Writer, providers []goosed.Provider, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(providers)
	}
	writeProviderTable(w, providers)
	return nil
}

func writeProviderTable(w io.Writer, providers []goosed.Provider) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMODELS\tREQUIRED KEYS")
	for _, p := range providers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, joinOrDash(p.Models), joinOrDash(p.RequiredKeys))
	}
	_ = tw.Flush()
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
