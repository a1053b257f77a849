// Package probe starts a stdio extension locally and asks it, over MCP, which
// tools it offers.
package probe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DevSymphony/goosectl/internal/goosed"
)

const defaultTimeout = 30 * time.Second

// Tool is one tool reported by an extension.
type Tool struct {
	Name        string
	Description string
}

// Command builds the process that would run ext, with the extension's
// environment layered over ours.
func Command(ctx context.Context, ext goosed.ExtensionConfig) (*exec.Cmd, error) {
	if ext.Type != goosed.ExtensionStdio {
		return nil, fmt.Errorf("extension %q is %s; only stdio extensions can be probed", ext.Name, ext.Type)
	}
	if err := ext.Validate(); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ext.Cmd, ext.Args...)
	cmd.Env = os.Environ()
	keys := make([]string, 0, len(ext.Envs))
	for k := range ext.Envs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cmd.Env = append(cmd.Env, k+"="+ext.Envs[k])
	}
	return cmd, nil
}

// ListTools launches ext, performs the MCP handshake and returns its tools.
func ListTools(ctx context.Context, ext goosed.ExtensionConfig, version string) ([]Tool, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	cmd, err := Command(ctx, ext)
	if err != nil {
		return nil, err
	}
	return listTools(ctx, &mcp.CommandTransport{Command: cmd}, ext.Name, version)
}

// listTools runs the MCP handshake over transport and lists the server's tools.
func listTools(ctx context.Context, transport mcp.Transport, name, version string) ([]Tool, error) {
	client := mcp.NewClient(&mcp.Implementation{Name: "goosectl", Version: version}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start extension %q: %w", name, err)
	}
	defer func() { _ = session.Close() }()

	result, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools of %q: %w", name, err)
	}

	tools := make([]Tool, 0, len(result.Tools))
	for _, t := range result.Tools {
		tools = append(tools, Tool{Name: t.Name, Description: t.Description})
	}
	return tools, nil
}
