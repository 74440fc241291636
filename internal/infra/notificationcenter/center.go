package notificationcenter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/observability/tracing"
)

const (
	pendingKeyPrefix  = "reminder:pending:"
	requestsKeyPrefix = "reminder:pending:requests:"

	DefaultCeiling           = 64
	DefaultDeleteConcurrency = 8

	DefaultExpiryGrace = domain.DeliveryGrace
)

// storeScript adds or replaces one request. A new identifier is rejected
// with 0 when the pending set is at the ceiling.
//
// KEYS[1] pending zset, KEYS[2] request hash
// ARGV[1] identifier, ARGV[2] score, ARGV[3] record JSON, ARGV[4] ceiling
var storeScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[2], ARGV[1]) == 0 and redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[4]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[1])
redis.call('HSET', KEYS[2], ARGV[1], ARGV[3])
return 1
`)

var (
	ErrMissingFireTime   = errors.New("notification request has no fire time")
	ErrInvalidRecord     = errors.New("invalid pending request record")
	ErrEmptyUserID       = errors.New("user id cannot be empty")
	ErrInvalidIdentifier = errors.New("notification identifier cannot be empty")
)

// record is the stored form of one pending request.
type record struct {
	Request domain.NotificationRequest `json:"request"`
	TaskID  string                     `json:"task_id"`
}

// RedisCenter holds one user's pending notification requests. Requests are
// kept in a sorted set scored by fire time plus a hash of their JSON, and
// every accepted request is registered with the task queue.
type RedisCenter struct {
	client            *redis.Client
	queue             taskqueue.TaskQueue
	clock             domain.Clock
	userID            string
	ceiling           int
	deleteConcurrency int
	expiryGrace       time.Duration
}

var _ domain.NotificationCenter = (*RedisCenter)(nil)

// Provider builds per-user centers sharing one Redis client and task queue.
type Provider struct {
	client            *redis.Client
	queue             taskqueue.TaskQueue
	clock             domain.Clock
	ceiling           int
	deleteConcurrency int
	expiryGrace       time.Duration
}

func NewProvider(client *redis.Client, queue taskqueue.TaskQueue, clock domain.Clock, ceiling, deleteConcurrency int) *Provider {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	if deleteConcurrency <= 0 {
		deleteConcurrency = DefaultDeleteConcurrency
	}
	return &Provider{
		client:            client,
		queue:             queue,
		clock:             clock,
		ceiling:           ceiling,
		deleteConcurrency: deleteConcurrency,
		expiryGrace:       DefaultExpiryGrace,
	}
}

func (p *Provider) For(userID string) *RedisCenter {
	return &RedisCenter{
		client:            p.client,
		queue:             p.queue,
		clock:             p.clock,
		userID:            userID,
		ceiling:           p.ceiling,
		deleteConcurrency: p.deleteConcurrency,
		expiryGrace:       p.expiryGrace,
	}
}

func (c *RedisCenter) pendingKey() string  { return pendingKeyPrefix + c.userID }
func (c *RedisCenter) requestsKey() string { return requestsKeyPrefix + c.userID }

// Submit registers the request. A request with an identifier that is already
// pending replaces it; otherwise ErrCapExceeded is returned at the ceiling.
// The ceiling is checked again atomically when the request is stored.
func (c *RedisCenter) Submit(ctx context.Context, req *domain.NotificationRequest) error {
	if c.userID == "" {
		return ErrEmptyUserID
	}
	if req == nil || req.Identifier == "" {
		return ErrInvalidIdentifier
	}
	fireAt := req.Trigger.FireAt
	if fireAt.IsZero() {
		return ErrMissingFireTime
	}

	c.dropExpired(ctx)

	previous, err := c.lookup(ctx, req.Identifier)
	if err != nil && !errors.Is(err, domain.ErrNotificationNotFound) {
		return err
	}

	if previous == nil {
		count, err := c.client.ZCard(ctx, c.pendingKey()).Result()
		if err != nil {
			return fmt.Errorf("failed to count pending requests: %w", err)
		}
		if int(count) >= c.ceiling {
			return domain.ErrCapExceeded
		}
	}

	if previous != nil && previous.Request.Trigger.FireAt.Equal(fireAt) {
		// Same fire time: the registered task still applies.
		return c.store(ctx, record{Request: *req, TaskID: previous.TaskID})
	}

	task := taskqueue.NewNotificationTask(c.userID, req.Identifier, fireAt)

	spanCtx, span := tracing.StartExternalAPISpan(ctx, "register_notification", req.Identifier)
	_, err = c.queue.RegisterNotification(spanCtx, task)
	span.End()
	if err != nil {
		return fmt.Errorf("failed to register notification task: %w", err)
	}

	if err := c.store(ctx, record{Request: *req, TaskID: task.TaskID}); err != nil {
		if delErr := c.queue.DeleteTask(ctx, task.TaskID); delErr != nil {
			slog.WarnContext(ctx, "failed to roll back notification task",
				slog.String("user_id", c.userID),
				slog.String("task_id", task.TaskID),
				slog.String("error", delErr.Error()),
			)
		}
		return err
	}

	if previous != nil {
		if err := c.queue.DeleteTask(ctx, previous.TaskID); err != nil {
			slog.WarnContext(ctx, "failed to delete replaced notification task",
				slog.String("user_id", c.userID),
				slog.String("identifier", req.Identifier),
				slog.String("task_id", previous.TaskID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

func (c *RedisCenter) store(ctx context.Context, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	stored, err := storeScript.Run(ctx, c.client,
		[]string{c.pendingKey(), c.requestsKey()},
		rec.Request.Identifier,
		rec.Request.Trigger.FireAt.UnixMilli(),
		data,
		c.ceiling,
	).Int()
	if err != nil {
		return fmt.Errorf("failed to store pending request: %w", err)
	}
	if stored == 0 {
		return domain.ErrCapExceeded
	}
	return nil
}

// dropExpired removes requests whose fire time lies more than the expiry
// grace in the past. Failures are logged only.
func (c *RedisCenter) dropExpired(ctx context.Context) int {
	cutoff := c.clock.Now().Add(-c.expiryGrace).UnixMilli()

	expired, err := c.client.ZRangeByScore(ctx, c.pendingKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff, 10),
	}).Result()
	if err != nil {
		slog.WarnContext(ctx, "failed to look up expired pending requests",
			slog.String("user_id", c.userID),
			slog.String("error", err.Error()),
		)
		return 0
	}
	if len(expired) == 0 {
		return 0
	}

	members := make([]any, len(expired))
	for i, id := range expired {
		members[i] = id
	}
	pipe := c.client.TxPipeline()
	pipe.ZRem(ctx, c.pendingKey(), members...)
	pipe.HDel(ctx, c.requestsKey(), expired...)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.WarnContext(ctx, "failed to drop expired pending requests",
			slog.String("user_id", c.userID),
			slog.String("error", err.Error()),
		)
		return 0
	}

	slog.InfoContext(ctx, "dropped expired pending requests",
		slog.String("user_id", c.userID),
		slog.Int("count", len(expired)),
	)
	return len(expired)
}

func (c *RedisCenter) lookup(ctx context.Context, identifier string) (*record, error) {
	data, err := c.client.HGet(ctx, c.requestsKey(), identifier).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to read pending request: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return &rec, nil
}

// PendingRequests lists pending requests in fire-time order. Expired
// requests are dropped first.
func (c *RedisCenter) PendingRequests(ctx context.Context) ([]domain.NotificationRequest, error) {
	ctx, span := tracing.StartRedisOperationSpan(ctx, "pending_requests", c.pendingKey())
	defer span.End()

	records, err := c.records(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	out := make([]domain.NotificationRequest, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Request)
	}
	return out, nil
}

func (c *RedisCenter) records(ctx context.Context) ([]record, error) {
	c.dropExpired(ctx)

	identifiers, err := c.client.ZRange(ctx, c.pendingKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	if len(identifiers) == 0 {
		return nil, nil
	}

	values, err := c.client.HMGet(ctx, c.requestsKey(), identifiers...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read pending requests: %w", err)
	}

	records := make([]record, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			slog.WarnContext(ctx, "pending request without stored body",
				slog.String("user_id", c.userID),
				slog.String("identifier", identifiers[i]),
			)
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			slog.WarnContext(ctx, "skipping invalid pending request",
				slog.String("user_id", c.userID),
				slog.String("identifier", identifiers[i]),
				slog.String("error", err.Error()),
			)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Cancel removes the identified requests and deletes their tasks. Unknown
// identifiers are ignored. Requests whose task could not be deleted stay
// pending and the failures are returned joined.
func (c *RedisCenter) Cancel(ctx context.Context, identifiers []string) error {
	if len(identifiers) == 0 {
		return nil
	}

	values, err := c.client.HMGet(ctx, c.requestsKey(), identifiers...).Result()
	if err != nil {
		return fmt.Errorf("failed to read pending requests: %w", err)
	}

	failed := make([]error, len(identifiers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.deleteConcurrency)
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(s), &rec); err != nil || rec.TaskID == "" {
			continue
		}
		g.Go(func() error {
			if err := c.queue.DeleteTask(gctx, rec.TaskID); err != nil {
				failed[i] = fmt.Errorf("%s: %w", identifiers[i], err)
			}
			return nil
		})
	}
	_ = g.Wait()

	removable := make([]string, 0, len(identifiers))
	for i, id := range identifiers {
		if failed[i] == nil {
			removable = append(removable, id)
		}
	}

	if len(removable) > 0 {
		members := make([]any, len(removable))
		for i, id := range removable {
			members[i] = id
		}
		pipe := c.client.TxPipeline()
		pipe.ZRem(ctx, c.pendingKey(), members...)
		pipe.HDel(ctx, c.requestsKey(), removable...)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to remove pending requests: %w", err)
		}
	}

	return errors.Join(failed...)
}

// Complete removes a request whose task has fired and returns it. A delivery
// for a request that was since replaced or cancelled yields
// domain.ErrStaleDelivery or domain.ErrNotificationNotFound.
func (c *RedisCenter) Complete(ctx context.Context, identifier, taskID string) (*domain.NotificationRequest, error) {
	rec, err := c.lookup(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if rec.TaskID != taskID {
		return nil, domain.ErrStaleDelivery
	}

	pipe := c.client.TxPipeline()
	pipe.ZRem(ctx, c.pendingKey(), identifier)
	pipe.HDel(ctx, c.requestsKey(), identifier)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to remove delivered request: %w", err)
	}

	req := rec.Request
	return &req, nil
}
