package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"wedding-rsvp/internal/models"
)

// Health probes the admin health endpoint with the given Authorization
// header. Nil means the header is accepted.
func (c *Client) Health(ctx context.Context, authHeader string) error {
	_, err := c.do(ctx, http.MethodGet, c.endpoint(c.cfg.HealthEndpoint), authHeader, nil)
	return err
}

// PublicSettings fetches the RSVP switches
func (c *Client) PublicSettings(ctx context.Context) (models.Settings, error) {
	s := models.DefaultSettings()
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(c.cfg.PublicSettingsEndpoint), "", nil, &s); err != nil {
		return models.DefaultSettings(), err
	}
	return s, nil
}

// RSVPMeta fetches the prefill data for an invite token
func (c *Client) RSVPMeta(ctx context.Context, token string) (models.RSVPMeta, error) {
	var meta models.RSVPMeta
	err := c.doJSON(ctx, http.MethodGet, c.endpoint(c.cfg.RSVPMetaEndpoint, token), "", nil, &meta)
	return meta, err
}

// SubmitRSVP posts a guest submission. Any 2xx is success; the receipt is
// filled from the body when the backend sends one.
func (c *Client) SubmitRSVP(ctx context.Context, sub models.Submission) (models.SubmissionReceipt, error) {
	data, err := c.do(ctx, http.MethodPost, c.endpoint(c.cfg.RSVPEndpoint), "", sub)
	if err != nil {
		return models.SubmissionReceipt{}, err
	}
	var receipt models.SubmissionReceipt
	if data = bytes.TrimSpace(data); len(data) > 0 && data[0] == '{' {
		if err := json.Unmarshal(data, &receipt); err != nil {
			c.log.Debug().Err(err).Msg("Ignoring undecodable submission receipt")
		}
	}
	return receipt, nil
}
