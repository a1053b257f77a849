package ui

import (
	"fmt"
	"strings"

	"github.com/DevSymphony/goosectl/internal/goosed"
)

// ExtensionItem is one row of the extension settings list: name, description,
// a configure affordance and an on/off switch.
type ExtensionItem struct {
	Extension   goosed.FullExtensionConfig
	OnToggle    func(id string)
	OnConfigure func(ext goosed.FullExtensionConfig)
}

// Click presses the switch. The toggle callback gets the item's id on every
// click; whether that enables or disables is for the callback to decide.
func (i ExtensionItem) Click() {
	if i.OnToggle != nil {
		i.OnToggle(i.Extension.ID)
	}
}

// Configure presses the gear.
func (i ExtensionItem) Configure() {
	if i.OnConfigure != nil {
		i.OnConfigure(i.Extension)
	}
}

// Switch renders the on/off state.
func (i ExtensionItem) Switch() string {
	if i.Extension.Enabled {
		return colorize(Green, "[ ON]")
	}
	return colorize(Gray, "[OFF]")
}

// Label is the one-line form used in pickers.
func (i ExtensionItem) Label() string {
	return fmt.Sprintf("%s %s (%s)", i.Switch(), i.Extension.Name, i.Extension.ID)
}

// Render returns the full row, description on the second line.
func (i ExtensionItem) Render() string {
	var b strings.Builder
	b.WriteString(i.Switch())
	b.WriteString(" ")
	b.WriteString(colorize(Bold, i.Extension.Name))
	b.WriteString(colorize(Gray, fmt.Sprintf("  %s · %s", i.Extension.ID, i.Extension.Type)))
	if i.Extension.Description != "" {
		b.WriteString("\n")
		b.WriteString(Indent(colorize(Gray, i.Extension.Description)))
	}
	return b.String()
}
