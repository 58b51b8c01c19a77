package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lnking/lnking/internal/pkg/env"
)

const (
	defaultTinybirdBaseURL = "https://api.tinybird.co"

	saleDatasource = "lnking_sale_events"
	leadDatasource = "lnking_lead_events"
)

// Recorder is the analytics sink for sale and lead records.
type Recorder interface {
	RecordSale(ctx context.Context, event Event) error
	RecordLead(ctx context.Context, event Event) error
}

// TinybirdClient appends events to Tinybird datasources over the events API.
type TinybirdClient struct {
	Token   string
	BaseURL string

	HTTPClient *http.Client
}

// NewTinybirdClientFromEnv builds a client from TINYBIRD_* variables.
func NewTinybirdClientFromEnv() *TinybirdClient {
	return &TinybirdClient{
		Token:   strings.TrimSpace(env.GetEnv("TINYBIRD_API_KEY", "")),
		BaseURL: strings.TrimRight(env.GetEnv("TINYBIRD_API_URL", defaultTinybirdBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *TinybirdClient) RecordSale(ctx context.Context, event Event) error {
	return c.append(ctx, saleDatasource, event)
}

func (c *TinybirdClient) RecordLead(ctx context.Context, event Event) error {
	return c.append(ctx, leadDatasource, event)
}

func (c *TinybirdClient) append(ctx context.Context, datasource string, event Event) error {
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("TINYBIRD_API_KEY is not configured")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v0/events?name=%s", c.BaseURL, datasource)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("tinybird append to %s failed: status=%d body=%s", datasource, resp.StatusCode, string(raw))
	}
	return nil
}
