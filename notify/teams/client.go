package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/relloyd/dpu/errs"
	"github.com/relloyd/dpu/logger"
)

const defaultTimeout = 30 * time.Second

// Poster is implemented by Client.
type Poster interface {
	Post(ctx context.Context, card MessageCard) error
}

type Client struct {
	Log        logger.Logger
	WebhookUrl string
	HttpClient *http.Client
}

func NewClient(log logger.Logger, webhookUrl string) *Client {
	return &Client{Log: log, WebhookUrl: webhookUrl, HttpClient: &http.Client{Timeout: defaultTimeout}}
}

// Post sends card to the webhook. Any non-2xx response is returned as an error.
func (c *Client) Post(ctx context.Context, card MessageCard) error {
	if c.WebhookUrl == "" {
		return errs.NewConfigurationError("teams", "missing webhook url")
	}
	b, err := json.Marshal(card)
	if err != nil {
		return errors.Wrap(err, "error marshalling message card")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.WebhookUrl, bytes.NewReader(b))
	if err != nil {
		return errs.NewConfigurationError("teams", "bad webhook url: %v", err)
	}
	req.Header.Set("content-type", "application/json")
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return errs.External("teams", "post card", err)
	}
	defer resp.Body.Close()
	body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.External("teams", "post card", fmt.Errorf("unexpected status %v: %s", resp.Status, body))
	}
	c.Log.Info("posted teams card: ", card.Summary)
	return nil
}
