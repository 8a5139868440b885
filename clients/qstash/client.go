package qstash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/taqh/notra-sub001/clients"
)

const apiBaseURL = "https://qstash.upstash.io/v2"

// QStashClient implements the clients.SchedulerClient interface against the
// Upstash QStash REST API. Retry and delivery durability live on the remote
// side; this client only creates, deletes and fires handles.
//
// QStash only forwards headers prefixed Upstash-Forward- to the destination,
// so the execution callback token must be registered that way on every
// schedule and publish.
type QStashClient struct {
	httpClient    *http.Client
	token         string
	callbackToken string
	baseURL       string
}

// NewQStashClient creates a new QStash scheduler client. callbackToken is
// delivered to the execution endpoint as X-Callback-Token on every firing.
func NewQStashClient(token, callbackToken string) clients.SchedulerClient {
	return &QStashClient{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		token:         token,
		callbackToken: callbackToken,
		baseURL:       apiBaseURL,
	}
}

type scheduleResponse struct {
	ScheduleID string `json:"scheduleId"`
}

type publishResponse struct {
	MessageID string `json:"messageId"`
}

// CreateSchedule registers a remote cron schedule pointing at the execution endpoint
func (c *QStashClient) CreateSchedule(ctx context.Context, triggerID, cronExpression, destinationURL string) (string, error) {
	if triggerID == "" {
		return "", fmt.Errorf("trigger ID cannot be empty")
	}
	if cronExpression == "" {
		return "", fmt.Errorf("cron expression cannot be empty")
	}

	body, err := json.Marshal(map[string]string{"triggerId": triggerID})
	if err != nil {
		return "", fmt.Errorf("failed to marshal schedule body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/schedules/%s", c.baseURL, url.QueryEscape(destinationURL))
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Cron", cronExpression)
	req.Header.Set("Upstash-Forward-X-Callback-Token", c.callbackToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create schedule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("schedule creation failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var schedule scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if schedule.ScheduleID == "" {
		return "", fmt.Errorf("missing schedule ID in response")
	}

	return schedule.ScheduleID, nil
}

// DeleteSchedule removes a remote cron schedule by handle
func (c *QStashClient) DeleteSchedule(ctx context.Context, scheduleID string) error {
	if scheduleID == "" {
		return fmt.Errorf("schedule ID cannot be empty")
	}

	endpoint := fmt.Sprintf("%s/schedules/%s", c.baseURL, url.PathEscape(scheduleID))
	req, err := http.NewRequestWithContext(ctx, "DELETE", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	defer resp.Body.Close()

	// A missing schedule is fine: the handle is gone either way
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("schedule deletion failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// PublishRunNow enqueues an immediate run of the trigger
func (c *QStashClient) PublishRunNow(ctx context.Context, triggerID, destinationURL string, manual bool) (string, error) {
	if triggerID == "" {
		return "", fmt.Errorf("trigger ID cannot be empty")
	}

	body, err := json.Marshal(map[string]any{
		"triggerId": triggerID,
		"manual":    manual,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal publish body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/publish/%s", c.baseURL, url.QueryEscape(destinationURL))
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Forward-X-Callback-Token", c.callbackToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to publish message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("publish failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var published publishResponse
	if err := json.NewDecoder(resp.Body).Decode(&published); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if published.MessageID == "" {
		return "", fmt.Errorf("missing message ID in response")
	}

	return published.MessageID, nil
}
