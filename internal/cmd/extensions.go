package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/DevSymphony/goosectl/internal/config"
	"github.com/DevSymphony/goosectl/internal/extensions"
	"github.com/DevSymphony/goosectl/internal/goosed"
	"github.com/DevSymphony/goosectl/internal/probe"
	"github.com/DevSymphony/goosectl/internal/ui"
)

const extensionsSiteURL = "https://block.github.io/goose/v1/extensions/"

var extensionsCmd = &cobra.Command{
	Use:     "extensions",
	Aliases: []string{"ext"},
	Short:   "Manage agent extensions",
	Long: `List, toggle, attach and detach extensions.

Extension settings live in ~/.config/goosectl/extensions.json. Toggling an
extension attaches or detaches it on the running agent first and only then
records the new state.`,
}

var extListEnabled bool

func init() {
	extListCmd.Flags().BoolVar(&extListEnabled, "enabled", false, "only show enabled extensions")

	extensionsCmd.AddCommand(extListCmd)
	extensionsCmd.AddCommand(extShowCmd)
	extensionsCmd.AddCommand(extToggleCmd)
	extensionsCmd.AddCommand(extAddCmd)
	extensionsCmd.AddCommand(extAddURLCmd)
	extensionsCmd.AddCommand(extRemoveCmd)
	extensionsCmd.AddCommand(extProbeCmd)
	extensionsCmd.AddCommand(extBrowseCmd)
}

var extListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored extensions",
	Run: func(_ *cobra.Command, _ []string) {
		store := extensions.NewStore(config.GetExtensionsPath())

		list := store.List
		if extListEnabled {
			list = store.Enabled
		}
		exts, err := list()
		if err != nil {
			exitWithError(err)
		}
		if len(exts) == 0 {
			ui.PrintInfo("No extensions")
			return
		}
		for _, ext := range exts {
			fmt.Fprintln(ui.Out, ui.ExtensionItem{Extension: ext}.Render())
		}
	},
}

var extShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an extension's full configuration",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ext, err := extensions.NewStore(config.GetExtensionsPath()).Get(args[0])
		if err != nil {
			exitWithError(err)
		}
		item := ui.ExtensionItem{Extension: ext, OnConfigure: printExtensionDetails}
		item.Configure()
	},
}

var extToggleCmd = &cobra.Command{
	Use:   "toggle [id]",
	Short: "Switch an extension on or off",
	Long: `Switch an extension on or off. Without an id, pick one from the list.

Examples:
  goosectl extensions toggle
  goosectl extensions toggle developer`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			exitWithError(err)
		}
		store := extensions.NewStore(config.GetExtensionsPath())
		exts, err := store.List()
		if err != nil {
			exitWithError(err)
		}

		var toggleErr error
		onToggle := func(id string) {
			ext, err := store.Toggle(cmd.Context(), a.client, id)
			if err != nil {
				toggleErr = err
				return
			}
			state := "disabled"
			if ext.Enabled {
				state = "enabled"
			}
			ui.PrintOK(fmt.Sprintf("%s %s", ext.Name, state))
		}

		items := make([]ui.ExtensionItem, len(exts))
		for i, ext := range exts {
			items[i] = ui.ExtensionItem{Extension: ext, OnToggle: onToggle}
		}

		item, err := pickExtension(items, args)
		if err != nil {
			exitWithError(err)
		}
		item.Click()
		if toggleErr != nil {
			exitWithError(toggleErr)
		}
	},
}

var extAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Attach a builtin extension to the running agent",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			exitWithError(err)
		}
		if err := a.client.Extend(cmd.Context(), goosed.Builtin(args[0])); err != nil {
			exitWithError(err)
		}
		ui.PrintOK(fmt.Sprintf("Builtin extension %q attached", args[0]))
	},
}

var extAddURLCmd = &cobra.Command{
	Use:   "add-url <goose://extension?...>",
	Short: "Attach and save an extension from a deep link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			exitWithError(err)
		}
		ext, err := extensions.NewStore(config.GetExtensionsPath()).AttachURL(cmd.Context(), a.client, args[0])
		if errors.Is(err, extensions.ErrNotSaved) {
			ui.PrintWarn(err.Error())
			return
		}
		if err != nil {
			exitWithError(err)
		}
		ui.PrintOK(fmt.Sprintf("Extension %q attached and saved", ext.Name))
	},
}

var extRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Detach an extension from the running agent",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			exitWithError(err)
		}
		if err := a.client.RemoveExtension(cmd.Context(), args[0]); err != nil {
			exitWithError(err)
		}
		ui.PrintOK(fmt.Sprintf("Extension %q detached", args[0]))
	},
}

var extProbeCmd = &cobra.Command{
	Use:   "probe <id>",
	Short: "Start a stdio extension locally and list its tools",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ext, err := extensions.NewStore(config.GetExtensionsPath()).Get(args[0])
		if err != nil {
			exitWithError(err)
		}

		tools, err := probe.ListTools(cmd.Context(), ext.ExtensionConfig, version)
		if err != nil {
			exitWithError(err)
		}
		ui.PrintTitle("TOOLS", fmt.Sprintf("%s exposes %d tool(s)", ext.Name, len(tools)))
		for _, tool := range tools {
			fmt.Fprintf(ui.Out, "  %s\n", tool.Name)
			if tool.Description != "" {
				ui.PrintIndent(tool.Description)
			}
		}
	},
}

var extBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the extensions directory in a browser",
	Run: func(_ *cobra.Command, _ []string) {
		if err := browser.OpenURL(extensionsSiteURL); err != nil {
			ui.PrintWarn(fmt.Sprintf("Could not open a browser: %v", err))
			ui.PrintInfo(extensionsSiteURL)
		}
	},
}

// pickExtension returns the item named by args, or asks for one.
func pickExtension(items []ui.ExtensionItem, args []string) (ui.ExtensionItem, error) {
	if len(args) == 1 {
		for _, item := range items {
			if item.Extension.ID == args[0] {
				return item, nil
			}
		}
		return ui.ExtensionItem{}, fmt.Errorf("extension %q not found", args[0])
	}
	if len(items) == 0 {
		return ui.ExtensionItem{}, errors.New("no extensions to toggle")
	}

	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label()
	}

	restore := useSelectTemplateNoFilter()
	defer restore()

	var index int
	prompt := &survey.Select{
		Message:  "Toggle which extension?",
		Options:  labels,
		PageSize: 10,
	}
	if err := survey.AskOne(prompt, &index); err != nil {
		return ui.ExtensionItem{}, fmt.Errorf("selection cancelled: %w", err)
	}
	return items[index], nil
}

func printExtensionDetails(ext goosed.FullExtensionConfig) {
	fmt.Fprintln(ui.Out, ui.ExtensionItem{Extension: ext}.Render())
	fmt.Fprintln(ui.Out)
	fmt.Fprintf(ui.Out, "  Type: %s\n", ext.Type)
	switch ext.Type {
	case goosed.ExtensionStdio:
		fmt.Fprintf(ui.Out, "  Command: %s %s\n", ext.Cmd, strings.Join(ext.Args, " "))
	case goosed.ExtensionSSE:
		fmt.Fprintf(ui.Out, "  URI: %s\n", ext.URI)
	}
	if len(ext.EnvKeys) > 0 {
		fmt.Fprintf(ui.Out, "  Env keys: %s\n", strings.Join(ext.EnvKeys, ", "))
	}
}

func exitWithError(err error) {
	ui.PrintError(err.Error())
	os.Exit(1)
}
