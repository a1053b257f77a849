package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DevSymphony/goosectl/internal/config"
	"github.com/DevSymphony/goosectl/internal/extensions"
	"github.com/DevSymphony/goosectl/internal/goosed"
	"github.com/DevSymphony/goosectl/internal/initializer"
	"github.com/DevSymphony/goosectl/internal/ui"
	"github.com/DevSymphony/goosectl/internal/util/env"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the backend with a provider and model",
	Long: `Register an agent with the backend and attach the developer extension.

The provider and model are taken from, in order: the flags, the environment
(GOOSE_PROVIDER, GOOSE_MODEL), ~/.config/goosectl/config.json, the goose CLI
config, and the last successful init. Anything still missing is picked
interactively from the backend's provider listing.

If a deep link is given (--deep-link or GOOSE_DEEP_LINK) it is attached as an
extra extension and saved to the extension settings.

Examples:
  goosectl init
  goosectl init --provider openai --model gpt-4o
  goosectl init --deep-link 'goose://extension?cmd=npx&arg=-y&arg=@modelcontextprotocol/server-memory&id=memory'`,
	Run: runInit,
}

var (
	initProvider string
	initModel    string
	initDeepLink string
	initNoInput  bool
)

func init() {
	initCmd.Flags().StringVarP(&initProvider, "provider", "p", "", "provider id (e.g. openai)")
	initCmd.Flags().StringVarP(&initModel, "model", "m", "", "model name (e.g. gpt-4o)")
	initCmd.Flags().StringVar(&initDeepLink, "deep-link", "", "goose://extension link to attach after initialization")
	initCmd.Flags().BoolVar(&initNoInput, "no-input", false, "fail instead of prompting for a missing provider or model")
}

func runInit(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	store := env.NewStore(config.GetSettingsPath())
	last, err := store.Values()
	if err != nil {
		ui.PrintWarn(fmt.Sprintf("Ignoring last used provider/model: %v", err))
	}

	var sel selector = promptSelector{}
	if initNoInput {
		sel = nil
	}

	provider, model, err := resolveProviderModel(ctx, selection{
		Provider:    firstNonEmpty(initProvider, a.cfg.Provider, last[env.KeyProvider]),
		Model:       firstNonEmpty(initModel, a.cfg.Model, last[env.KeyModel]),
		ModelPinned: initModel != "",
	}, a.client, sel)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	deepLink := firstNonEmpty(initDeepLink, a.cfg.DeepLink)

	ui.PrintTitle("INIT", fmt.Sprintf("provider %s, model %s", provider, model))

	seq := initializer.New(a.client, a.log)
	res, err := seq.Initialize(ctx, provider, model, initializer.Options{DeepLink: deepLink})
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	if err := store.SetAll(map[string]string{env.KeyProvider: provider, env.KeyModel: model}); err != nil {
		ui.PrintWarn(fmt.Sprintf("Could not remember provider/model: %v", err))
	}

	if ext := res.DeepLinked; ext != nil {
		if err := extensions.NewStore(config.GetExtensionsPath()).Put(*ext); err != nil {
			ui.PrintWarn(fmt.Sprintf("Extension attached but not saved to settings: %v", err))
		} else {
			ui.PrintOK(fmt.Sprintf("Extension %q attached from deep link", ext.Name))
		}
	}

	ui.PrintDone(fmt.Sprintf("Agent ready at %s", a.client.BaseURL()))
}

// selection is a provider/model pair; either may still be empty.
type selection struct {
	Provider string
	Model    string
	// ModelPinned marks a model the user typed for this run. It is kept even
	// when it is not in the picked provider's listing.
	ModelPinned bool
}

type providerLister interface {
	ListProviders(ctx context.Context) ([]goosed.Provider, error)
}

// selector asks the user to choose. A nil selector means no one can be asked.
type selector interface {
	SelectProvider(providers []goosed.Provider) (goosed.Provider, error)
	SelectModel(provider goosed.Provider) (string, error)
}

var errNoInput = errors.New("provider and model are required (use --provider and --model)")

// resolveProviderModel fills in whatever current lacks. The backend listing is
// only fetched when something is missing, and no check is made that a given
// pair exists: the backend validates it during registration.
func resolveProviderModel(ctx context.Context, current selection, lister providerLister, sel selector) (string, string, error) {
	if current.Provider != "" && current.Model != "" {
		return current.Provider, current.Model, nil
	}
	if sel == nil {
		return "", "", errNoInput
	}

	providers, err := lister.ListProviders(ctx)
	if err != nil {
		return "", "", err
	}
	if len(providers) == 0 {
		return "", "", errors.New("the backend reported no providers")
	}

	var chosen goosed.Provider
	if current.Provider == "" {
		chosen, err = sel.SelectProvider(providers)
		if err != nil {
			return "", "", err
		}
	} else {
		found := false
		for _, p := range providers {
			if p.ID == current.Provider {
				chosen, found = p, true
				break
			}
		}
		if !found {
			return "", "", fmt.Errorf("provider %q is not offered by the backend; pass --model explicitly", current.Provider)
		}
	}

	// A model from config or the last run only carries over if it belongs to
	// the newly picked provider.
	model := current.Model
	if model == "" || (current.Provider == "" && !current.ModelPinned && !chosen.HasModel(model)) {
		model, err = sel.SelectModel(chosen)
		if err != nil {
			return "", "", err
		}
	}

	return chosen.ID, model, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
