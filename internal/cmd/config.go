package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/DevSymphony/goosectl/internal/config"
	"github.com/DevSymphony/goosectl/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure the backend address and credentials",
	Long: `Show or change the settings stored in ~/.config/goosectl/config.json.

Environment variables (GOOSE_API_HOST, GOOSE_PORT, GOOSE_SECRET_KEY, ...)
override the stored values at run time but are never written back.

Examples:
  goosectl config --show
  goosectl config --host http://localhost --port 3001
  goosectl config --set-secret
  goosectl config --provider openai --model gpt-4o
  goosectl config --reset`,
	Run: runConfig,
}

var (
	configShow      bool
	configReset     bool
	configHost      string
	configPort      int
	configSetSecret bool
	configProvider  string
	configModel     string
)

func init() {
	configCmd.Flags().BoolVar(&configShow, "show", false, "show the effective configuration")
	configCmd.Flags().BoolVar(&configReset, "reset", false, "remove all stored settings")
	configCmd.Flags().StringVar(&configHost, "host", "", "backend host (e.g. http://127.0.0.1)")
	configCmd.Flags().IntVar(&configPort, "port", 0, "backend port")
	configCmd.Flags().BoolVar(&configSetSecret, "set-secret", false, "prompt for the backend secret key")
	configCmd.Flags().StringVar(&configProvider, "provider", "", "default provider id")
	configCmd.Flags().StringVar(&configModel, "model", "", "default model")
}

func runConfig(cmd *cobra.Command, _ []string) {
	if configReset {
		resetConfig()
		return
	}

	cfg, err := config.LoadFileConfig()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	changed := false
	if configHost != "" {
		cfg.APIHost = configHost
		changed = true
	}
	if configPort != 0 {
		if configPort < 0 || configPort > 65535 {
			ui.PrintError(fmt.Sprintf("invalid port %d", configPort))
			os.Exit(1)
		}
		cfg.Port = configPort
		changed = true
	}
	if configProvider != "" {
		cfg.Provider = configProvider
		changed = true
	}
	if configModel != "" {
		cfg.Model = configModel
		changed = true
	}
	if configSetSecret {
		var secret string
		if err := survey.AskOne(&survey.Password{Message: "Backend secret key:"}, &secret); err != nil {
			ui.PrintError(fmt.Sprintf("secret entry cancelled: %v", err))
			os.Exit(1)
		}
		cfg.SecretKey = secret
		changed = true
	}

	if changed {
		if err := config.SaveConfig(cfg); err != nil {
			ui.PrintError(fmt.Sprintf("Failed to save configuration: %v", err))
			os.Exit(1)
		}
		ui.PrintOK("Configuration saved")
	}

	if configShow || !changed {
		showConfig()
	}
}

func showConfig() {
	cfg, err := config.LoadConfig()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	fmt.Fprintln(ui.Out, "Current configuration:")
	fmt.Fprintf(ui.Out, "  Backend:    %s\n", cfg.GetBaseURL())
	fmt.Fprintf(ui.Out, "  Secret key: %s\n", orNotSet(maskString(cfg.SecretKey)))
	fmt.Fprintf(ui.Out, "  Provider:   %s\n", orNotSet(cfg.Provider))
	fmt.Fprintf(ui.Out, "  Model:      %s\n", orNotSet(cfg.Model))
	fmt.Fprintf(ui.Out, "  Log:        %s (%s)\n", cfg.GetLogLevel(), cfg.GetLogFormat())
	fmt.Fprintf(ui.Out, "  Timeout:    %s\n", cfg.GetHTTPTimeout())
	fmt.Fprintf(ui.Out, "\nConfig file: %s\n", config.GetConfigPath())
}

func resetConfig() {
	confirm := false
	prompt := &survey.Confirm{Message: "Remove all stored goosectl settings?"}
	if err := survey.AskOne(prompt, &confirm); err != nil || !confirm {
		ui.PrintWarn("Reset cancelled")
		return
	}

	if err := config.SaveConfig(&config.Config{}); err != nil {
		ui.PrintError(fmt.Sprintf("Failed to reset configuration: %v", err))
		os.Exit(1)
	}
	ui.PrintOK("Configuration reset to defaults")
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func maskString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
