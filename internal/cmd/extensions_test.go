package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevSymphony/goosectl/internal/goosed"
	"github.com/DevSymphony/goosectl/internal/ui"
)

func TestPickExtension_ByID(t *testing.T) {
	var toggled []string
	items := []ui.ExtensionItem{
		{Extension: goosed.FullExtensionConfig{ID: "developer"}, OnToggle: func(id string) { toggled = append(toggled, id) }},
		{Extension: goosed.FullExtensionConfig{ID: "memory"}, OnToggle: func(id string) { toggled = append(toggled, id) }},
	}

	item, err := pickExtension(items, []string{"memory"})
	require.NoError(t, err)
	item.Click()

	assert.Equal(t, []string{"memory"}, toggled)
}

func TestPickExtension_UnknownID(t *testing.T) {
	_, err := pickExtension([]ui.ExtensionItem{{Extension: goosed.FullExtensionConfig{ID: "developer"}}}, []string{"nope"})
	assert.Error(t, err)
}

func TestPickExtension_NothingToPick(t *testing.T) {
	_, err := pickExtension(nil, nil)
	assert.Error(t, err)
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "", maskString(""))
	assert.Equal(t, "****", maskString("short"))
	assert.Equal(t, "abcd****mnop", maskString("abcdefghijklmnop"))
}
