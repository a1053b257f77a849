package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DevSymphony/goosectl/internal/goosed"
)

func TestExtensionItem_Click(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		var got []string
		item := ExtensionItem{
			Extension: goosed.FullExtensionConfig{ID: "x", Enabled: enabled},
			OnToggle:  func(id string) { got = append(got, id) },
		}

		item.Click()
		assert.Equal(t, []string{"x"}, got, "enabled=%v", enabled)

		item.Click()
		assert.Equal(t, []string{"x", "x"}, got, "enabled=%v", enabled)
	}
}

func TestExtensionItem_Configure(t *testing.T) {
	var got []goosed.FullExtensionConfig
	ext := goosed.FullExtensionConfig{ID: "fetch", ExtensionConfig: goosed.ExtensionConfig{Name: "Fetch"}}
	toggled := false
	item := ExtensionItem{
		Extension:   ext,
		OnToggle:    func(string) { toggled = true },
		OnConfigure: func(e goosed.FullExtensionConfig) { got = append(got, e) },
	}

	item.Configure()
	assert.Equal(t, []goosed.FullExtensionConfig{ext}, got)
	assert.False(t, toggled)
}

func TestExtensionItem_NilCallbacks(t *testing.T) {
	item := ExtensionItem{Extension: goosed.FullExtensionConfig{ID: "x"}}
	assert.NotPanics(t, item.Click)
	assert.NotPanics(t, item.Configure)
}

func TestExtensionItem_Render(t *testing.T) {
	prev := Out
	Out = &bytes.Buffer{}
	defer func() { Out = prev }()

	item := ExtensionItem{Extension: goosed.FullExtensionConfig{
		ExtensionConfig: goosed.Builtin("developer"),
		ID:              "developer",
		Description:     "General development tools",
		Enabled:         true,
	}}

	assert.Equal(t, "[ ON] developer  developer · builtin\n     General development tools", item.Render())
	assert.Equal(t, "[ ON] developer (developer)", item.Label())

	item.Extension.Enabled = false
	assert.Equal(t, "[OFF] developer (developer)", item.Label())
}
