package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/DevSymphony/goosectl/internal/goosed"
)

var selectTemplates = &promptui.SelectTemplates{
	Label:    "{{ . }}?",
	Active:   "▸ {{ . | cyan }}",
	Inactive: "  {{ . }}",
	Selected: "✓ {{ . | green }}",
}

// promptSelector asks on the terminal using promptui.
type promptSelector struct{}

func (promptSelector) SelectProvider(providers []goosed.Provider) (goosed.Provider, error) {
	items := make([]string, len(providers))
	for i, p := range providers {
		items[i] = fmt.Sprintf("%s - %s", p.Name, p.Description)
	}

	selectPrompt := promptui.Select{
		Label:     "Select a provider",
		Items:     items,
		Templates: selectTemplates,
		Size:      min(len(items), 10),
	}

	index, _, err := selectPrompt.Run()
	if err != nil {
		return goosed.Provider{}, fmt.Errorf("provider selection cancelled: %w", err)
	}
	return providers[index], nil
}

func (promptSelector) SelectModel(provider goosed.Provider) (string, error) {
	if len(provider.Models) == 0 {
		prompt := promptui.Prompt{
			Label: fmt.Sprintf("Model for %s", provider.Name),
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("model is required")
				}
				return nil
			},
		}
		model, err := prompt.Run()
		if err != nil {
			return "", fmt.Errorf("model selection cancelled: %w", err)
		}
		return strings.TrimSpace(model), nil
	}

	selectPrompt := promptui.Select{
		Label:     fmt.Sprintf("Select a %s model", provider.Name),
		Items:     provider.Models,
		Templates: selectTemplates,
		Size:      min(len(provider.Models), 10),
	}

	_, model, err := selectPrompt.Run()
	if err != nil {
		return "", fmt.Errorf("model selection cancelled: %w", err)
	}
	return model, nil
}
