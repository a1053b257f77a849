package goosed

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
)

// ExtensionType selects how the backend loads an extension.
type ExtensionType string

const (
	ExtensionBuiltin ExtensionType = "builtin"
	ExtensionStdio   ExtensionType = "stdio"
	ExtensionSSE     ExtensionType = "sse"
)

// allowedCommands are the only executables a stdio extension may launch.
var allowedCommands = []string{"goosed", "npx", "uvx"}

// ExtensionConfig is the descriptor accepted by POST /extensions/add.
type ExtensionConfig struct {
	Type ExtensionType     `json:"type"`
	Name string            `json:"name"`
	Cmd  string            `json:"cmd,omitempty"`
	Args []string          `json:"args,omitempty"`
	Envs map[string]string `json:"envs,omitempty"`
	URI  string            `json:"uri,omitempty"`
}

// Builtin returns the descriptor for a capability compiled into the backend.
func Builtin(name string) ExtensionConfig {
	return ExtensionConfig{Type: ExtensionBuiltin, Name: name}
}

// Validate checks the fields required for the descriptor's type.
func (e ExtensionConfig) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("extension name is required")
	}
	switch e.Type {
	case ExtensionBuiltin:
	case ExtensionStdio:
		if e.Cmd == "" {
			return fmt.Errorf("extension %q: cmd is required", e.Name)
		}
		if !slices.Contains(allowedCommands, e.Cmd) {
			return fmt.Errorf("extension %q: command %q is not allowed (allowed: %v)", e.Name, e.Cmd, allowedCommands)
		}
	case ExtensionSSE:
		if e.URI == "" {
			return fmt.Errorf("extension %q: uri is required", e.Name)
		}
	default:
		return fmt.Errorf("extension %q: unknown type %q", e.Name, e.Type)
	}
	return nil
}

type extensionResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message,omitempty"`
}

// Extend attaches an extension to the running agent.
func (c *Client) Extend(ctx context.Context, ext ExtensionConfig) error {
	const op = "failed to add extension"

	if err := ext.Validate(); err != nil {
		return parseError(op, err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ext).
		Post("/extensions/add")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsSuccess() {
		return registrationError(op, resp.StatusCode(), resp.Status())
	}

	// goosed answers 200 with {"error": true} when the extension fails to start.
	var result extensionResponse
	if len(resp.Body()) > 0 && json.Unmarshal(resp.Body(), &result) == nil && result.Error {
		apiErr := registrationError(op, resp.StatusCode(), resp.Status())
		if result.Message != "" {
			apiErr.StatusText = result.Message
		}
		return apiErr
	}

	c.logger.Debug().Str("extension", ext.Name).Str("type", string(ext.Type)).Msg("extension attached")
	return nil
}

// RemoveExtension detaches the named extension from the running agent.
func (c *Client) RemoveExtension(ctx context.Context, name string) error {
	const op = "failed to remove extension"

	body, err := json.Marshal(name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/extensions/remove")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsSuccess() {
		return registrationError(op, resp.StatusCode(), resp.Status())
	}

	c.logger.Debug().Str("extension", name).Msg("extension removed")
	return nil
}

// ExtendFromURL resolves a goose://extension deep link, attaches it and
// returns the descriptor that was sent. A link without an id gets a new one
// on every parse; persist the returned value, not a second parse. A malformed
// link fails before any request is made.
func (c *Client) ExtendFromURL(ctx context.Context, link string) (FullExtensionConfig, error) {
	ext, err := ParseDeepLink(link)
	if err != nil {
		return FullExtensionConfig{}, parseError("invalid extension link", err)
	}
	if err := c.Extend(ctx, ext.ExtensionConfig); err != nil {
		return FullExtensionConfig{}, err
	}
	return ext, nil
}
