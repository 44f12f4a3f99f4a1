package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// fixedWindowScript hace check+incremento atómico. Devuelve {allowed, ttl_ms, count}.
// Una request rechazada no incrementa el contador.
var fixedWindowScript = rdb.NewScript(`
local max = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local current = redis.call('GET', KEYS[1])
if not current then
  redis.call('SET', KEYS[1], 1, 'PX', window)
  return {1, window, 1}
end
local count = tonumber(current)
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], window)
  ttl = window
end
if count < max then
  count = redis.call('INCR', KEYS[1])
  return {1, ttl, count}
end
return {0, ttl, count}
`)

// RedisLimiter: fixed window compartido entre instancias. La expiración de la
// clave (PX) cierra la ventana; la granularidad es de milisegundos.
type RedisLimiter struct {
	Client rdb.Scripter
	Prefix string
	opts   options
}

func NewRedisLimiter(client rdb.Scripter, prefix string, opts ...Option) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{Client: client, Prefix: prefix, opts: buildOptions(opts)}
}

// Check implementa Limiter.
func (l *RedisLimiter) Check(ctx context.Context, identifier string, cfg Config) (Decision, error) {
	if err := validIdentifier(identifier); err != nil {
		return Decision{}, err
	}
	cfg = cfg.Normalize()
	key := l.Prefix + strings.ReplaceAll(identifier, " ", "_")

	vals, err := fixedWindowScript.Run(ctx, l.Client, []string{key}, cfg.MaxRequests, cfg.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate: redis check: %w", err)
	}
	if len(vals) != 3 {
		return Decision{}, fmt.Errorf("rate: redis check: unexpected reply %v", vals)
	}

	now := l.opts.now()
	count := int(vals[2])
	remaining := cfg.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   vals[0] == 1,
		ResetTime: now.Add(time.Duration(vals[1]) * time.Millisecond),
		Count:     count,
		Remaining: remaining,
	}, nil
}
