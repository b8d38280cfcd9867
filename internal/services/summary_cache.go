package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"
  "time"
  goredis "github.com/redis/go-redis/v9"
  "github.com/google/uuid"
  "github.com/backtolife/backtolife-backend/internal/logger"
  "github.com/backtolife/backtolife-backend/internal/types"
  "github.com/backtolife/backtolife-backend/internal/utils"
)

// SummaryCache keeps the dashboard summary warm between awards. A nil cache
// handle is valid everywhere it is used; callers fall through to the database.
type SummaryCache interface {
  Get(ctx context.Context, patientID uuid.UUID) (*types.Summary, error)
  Set(ctx context.Context, patientID uuid.UUID, summary *types.Summary) error
  Invalidate(ctx context.Context, patientID uuid.UUID) error
  Close() error
}

type redisSummaryCache struct {
  log *logger.Logger
  rdb *goredis.Client
  ttl time.Duration
}

func NewRedisSummaryCache(log *logger.Logger) (SummaryCache, error) {
  if log == nil {
    return nil, fmt.Errorf("logger required")
  }

  addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
  if addr == "" {
    return nil, fmt.Errorf("missing REDIS_ADDR")
  }
  ttlSeconds := utils.GetEnvAsInt("SUMMARY_CACHE_TTL_SECONDS", 30, log)

  rdb := goredis.NewClient(&goredis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })

  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    _ = rdb.Close()
    return nil, fmt.Errorf("redis ping: %w", err)
  }

  return &redisSummaryCache{
    log: log.With("service", "RedisSummaryCache"),
    rdb: rdb,
    ttl: time.Duration(ttlSeconds) * time.Second,
  }, nil
}

func summaryCacheKey(patientID uuid.UUID) string {
  return "rp:summary:" + patientID.String()
}

func (c *redisSummaryCache) Get(ctx context.Context, patientID uuid.UUID) (*types.Summary, error) {
  raw, err := c.rdb.Get(ctx, summaryCacheKey(patientID)).Bytes()
  if err == goredis.Nil {
    return nil, nil
  }
  if err != nil {
    return nil, fmt.Errorf("summary cache get: %w", err)
  }
  var summary types.Summary
  if err := json.Unmarshal(raw, &summary); err != nil {
    // A payload we cannot decode is as good as a miss.
    c.log.Warn("Dropping undecodable cached summary", "patient_id", patientID, "error", err)
    _ = c.rdb.Del(ctx, summaryCacheKey(patientID)).Err()
    return nil, nil
  }
  return &summary, nil
}

func (c *redisSummaryCache) Set(ctx context.Context, patientID uuid.UUID, summary *types.Summary) error {
  if summary == nil {
    return nil
  }
  raw, err := json.Marshal(summary)
  if err != nil {
    return fmt.Errorf("summary cache encode: %w", err)
  }
  if err := c.rdb.Set(ctx, summaryCacheKey(patientID), raw, c.ttl).Err(); err != nil {
    return fmt.Errorf("summary cache set: %w", err)
  }
  return nil
}

func (c *redisSummaryCache) Invalidate(ctx context.Context, patientID uuid.UUID) error {
  if err := c.rdb.Del(ctx, summaryCacheKey(patientID)).Err(); err != nil {
    return fmt.Errorf("summary cache invalidate: %w", err)
  }
  return nil
}

func (c *redisSummaryCache) Close() error {
  return c.rdb.Close()
}
