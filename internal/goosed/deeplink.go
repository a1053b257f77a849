package goosed

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	deepLinkScheme = "goose"
	deepLinkHost   = "extension"
)

// FullExtensionConfig is an extension descriptor plus the settings metadata
// kept alongside it.
type FullExtensionConfig struct {
	ExtensionConfig
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
	EnvKeys     []string `json:"env_keys,omitempty"`
}

// ParseDeepLink turns a link of the form
//
//	goose://extension?cmd=npx&arg=-y&arg=pkg&id=x&name=X&description=...&env=KEY=VALUE
//
// into a stdio extension. cmd is required; arg and env may repeat.
func ParseDeepLink(link string) (FullExtensionConfig, error) {
	u, err := url.Parse(link)
	if err != nil {
		return FullExtensionConfig{}, fmt.Errorf("parse %q: %w", link, err)
	}
	if u.Scheme != deepLinkScheme || u.Host != deepLinkHost {
		return FullExtensionConfig{}, fmt.Errorf("link must start with %s://%s, got %q", deepLinkScheme, deepLinkHost, link)
	}

	q := u.Query()
	cmd := q.Get("cmd")
	if cmd == "" {
		return FullExtensionConfig{}, fmt.Errorf("link is missing the required cmd parameter")
	}

	var envs map[string]string
	var envKeys []string
	for _, kv := range q["env"] {
		key, value, _ := strings.Cut(kv, "=")
		if key == "" {
			continue
		}
		if envs == nil {
			envs = make(map[string]string)
		}
		if _, seen := envs[key]; !seen {
			envKeys = append(envKeys, key)
		}
		envs[key] = value
	}
	sort.Strings(envKeys)

	id := q.Get("id")
	if id == "" {
		id = uuid.NewString()
	}
	name := q.Get("name")
	if name == "" {
		name = id
	}

	ext := FullExtensionConfig{
		ExtensionConfig: ExtensionConfig{
			Type: ExtensionStdio,
			Name: name,
			Cmd:  cmd,
			Args: q["arg"],
			Envs: envs,
		},
		ID:          id,
		Description: q.Get("description"),
		Enabled:     true,
		EnvKeys:     envKeys,
	}
	if err := ext.Validate(); err != nil {
		return FullExtensionConfig{}, err
	}
	return ext, nil
}
