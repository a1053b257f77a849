package goosed

import (
	"context"
	"fmt"
)

type addAgentRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// AddAgent registers an agent backed by provider and model. The backend is the
// only validator of the pair.
func (c *Client) AddAgent(ctx context.Context, provider, model string) error {
	const op = "failed to add agent"

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(addAgentRequest{Provider: provider, Model: model}).
		Post("/agent")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsSuccess() {
		return registrationError(op, resp.StatusCode(), resp.Status())
	}

	c.logger.Debug().Str("provider", provider).Str("model", model).Msg("agent registered")
	return nil
}
