package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taqh/notra-sub001/models"
)

// NewRedisConnection opens and pings a Redis connection
func NewRedisConnection(redisURL, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// RedisWebhookLogsRepository stores webhook log entries in capped, TTL-bound
// Redis lists. Each entry is written to a per-integration list and mirrored
// into an organization-wide "all" list; both are trimmed to the fixed cap.
// The append/trim/expire sequence runs as one pipeline, which is not
// transactional under concurrent writers. The list can transiently exceed
// the cap; acceptable for observability data.
type RedisWebhookLogsRepository struct {
	rdb *redis.Client
}

func NewRedisWebhookLogsRepository(rdb *redis.Client) *RedisWebhookLogsRepository {
	return &RedisWebhookLogsRepository{rdb: rdb}
}

func integrationLogKey(orgID models.OrgID, integrationType models.IntegrationType, integrationID string) string {
	return fmt.Sprintf("webhooklog:%s:%s:%s", orgID, integrationType, integrationID)
}

func allLogKey(orgID models.OrgID) string {
	return fmt.Sprintf("webhooklog:%s:all", orgID)
}

// AppendEntry writes one immutable log entry with the given retention
func (r *RedisWebhookLogsRepository) AppendEntry(
	ctx context.Context,
	entry *models.WebhookLogEntry,
	retentionDays int,
) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	ttl := time.Duration(retentionDays) * 24 * time.Hour
	keys := []string{allLogKey(entry.OrgID)}
	// Entries without an integration live only in the org-wide list
	if entry.IntegrationID != "" {
		keys = append(keys, integrationLogKey(entry.OrgID, entry.IntegrationType, entry.IntegrationID))
	}

	pipe := r.rdb.TxPipeline()
	for _, key := range keys {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, int64(models.WebhookLogMaxEntries-1))
		pipe.Expire(ctx, key, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}

	return nil
}

// ListEntries returns the capped list, most-recent-first. Empty
// integrationType/integrationID selects the organization-wide list.
func (r *RedisWebhookLogsRepository) ListEntries(
	ctx context.Context,
	orgID models.OrgID,
	integrationType models.IntegrationType,
	integrationID string,
) ([]*models.WebhookLogEntry, error) {
	key := allLogKey(orgID)
	if integrationType != "" && integrationID != "" {
		key = integrationLogKey(orgID, integrationType, integrationID)
	}

	raw, err := r.rdb.LRange(ctx, key, 0, int64(models.WebhookLogMaxEntries-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read log entries: %w", err)
	}

	entries := make([]*models.WebhookLogEntry, 0, len(raw))
	for _, item := range raw {
		var entry models.WebhookLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			// Skip undecodable entries rather than failing the whole read
			continue
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}
