package goosed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	unknownProviderName = "Unknown Provider"
	noDescription       = "No description available."
)

// Provider is a backend integration point exposing models and the credential
// keys it needs.
type Provider struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Models       []string `json:"models"`
	RequiredKeys []string `json:"required_keys"`
}

// HasModel reports whether model is one of the provider's supported models.
func (p Provider) HasModel(model string) bool {
	for _, m := range p.Models {
		if m == model {
			return true
		}
	}
	return false
}

// providerEntry is one element of the GET /agent/providers array. Only id is
// required; everything under details is optional.
type providerEntry struct {
	ID      string           `json:"id" validate:"required"`
	Details *providerDetails `json:"details"`
}

type providerDetails struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Models       []string `json:"models" validate:"omitempty,dive,required"`
	RequiredKeys []string `json:"required_keys" validate:"omitempty,dive,required"`
}

func (e providerEntry) toProvider() Provider {
	p := Provider{
		ID:           e.ID,
		Name:         unknownProviderName,
		Description:  noDescription,
		Models:       []string{},
		RequiredKeys: []string{},
	}
	if e.Details == nil {
		return p
	}
	if e.Details.Name != nil && *e.Details.Name != "" {
		p.Name = *e.Details.Name
	}
	if e.Details.Description != nil && *e.Details.Description != "" {
		p.Description = *e.Details.Description
	}
	if e.Details.Models != nil {
		p.Models = e.Details.Models
	}
	if e.Details.RequiredKeys != nil {
		p.RequiredKeys = e.Details.RequiredKeys
	}
	return p
}

// ListProviders fetches the providers the backend can run, in backend order.
func (c *Client) ListProviders(ctx context.Context) ([]Provider, error) {
	const op = "failed to fetch providers"

	resp, err := c.http.R().
		SetContext(ctx).
		Get("/agent/providers")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsSuccess() {
		return nil, fetchError(op, resp.StatusCode(), resp.Status())
	}

	c.logger.Debug().Int("bytes", len(resp.Body())).Msg("provider listing received")

	return c.decodeProviders(resp.Body())
}

func (c *Client) decodeProviders(body []byte) ([]Provider, error) {
	const op = "invalid provider listing"

	var entries []providerEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, parseError(op, err)
	}
	if entries == nil {
		return nil, parseError(op, errors.New("expected a JSON array"))
	}

	providers := make([]Provider, 0, len(entries))
	for i, entry := range entries {
		if err := c.validate.Struct(entry); err != nil {
			return nil, parseError(op, fmt.Errorf("element %d: %w", i, err))
		}
		providers = append(providers, entry.toProvider())
	}
	return providers, nil
}
