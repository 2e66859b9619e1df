package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tankscope/telemetry-service/internal/auth"
	"github.com/tankscope/telemetry-service/internal/config"
	"github.com/tankscope/telemetry-service/internal/models"
)

// Client wraps the Redis client with telemetry-specific operations
type Client struct {
	rdb *redis.Client
}

// New creates a new Redis client
func New(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks if Redis is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Stats snapshot caching

func statsKey(tankID string, days int) string {
	return fmt.Sprintf("tank:%s:stats:%dd", tankID, days)
}

// SetStatsSnapshot caches a computed snapshot with TTL
func (c *Client) SetStatsSnapshot(ctx context.Context, days int, snapshot *models.StatsSnapshot, ttl time.Duration) error {
	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal stats snapshot: %w", err)
	}
	return c.rdb.Set(ctx, statsKey(snapshot.TankID, days), jsonData, ttl).Err()
}

// GetStatsSnapshot retrieves a cached snapshot, nil on miss
func (c *Client) GetStatsSnapshot(ctx context.Context, tankID string, days int) (*models.StatsSnapshot, error) {
	jsonData, err := c.rdb.Get(ctx, statsKey(tankID, days)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot models.StatsSnapshot
	if err := json.Unmarshal(jsonData, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats snapshot: %w", err)
	}
	return &snapshot, nil
}

// InvalidateStats drops all cached windows for a tank after new data
func (c *Client) InvalidateStats(ctx context.Context, tankID string) error {
	iter := c.rdb.Scan(ctx, 0, fmt.Sprintf("tank:%s:stats:*", tankID), 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Session storage, implements auth.SessionStore

func sessionKey(token string) string {
	return "session:" + token
}

// SaveSession stores a session with TTL
func (c *Client) SaveSession(ctx context.Context, token string, session auth.Session, ttl time.Duration) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return c.rdb.Set(ctx, sessionKey(token), jsonData, ttl).Err()
}

// GetSession retrieves a session, nil when the token is unknown
func (c *Client) GetSession(ctx context.Context, token string) (*auth.Session, error) {
	jsonData, err := c.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session auth.Session
	if err := json.Unmarshal(jsonData, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session token
func (c *Client) DeleteSession(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, sessionKey(token)).Err()
}

// Live updates for dashboard subscribers

func updatesChannel(tankID string) string {
	return fmt.Sprintf("tank:%s:updates", tankID)
}

// PublishReadingUpdate broadcasts a newly stored reading on the tank's
// update channel. Delivery is fire-and-forget; dashboards that miss a
// message catch up on their next poll.
func (c *Client) PublishReadingUpdate(ctx context.Context, reading *models.Reading) error {
	jsonData, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}
	return c.rdb.Publish(ctx, updatesChannel(reading.TankID), jsonData).Err()
}
