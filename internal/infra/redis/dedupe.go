// File: internal/infra/redis/dedupe.go
package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Deduper is a cross-process first-writer-wins guard. The notifier claims an
// event key before dispatching so a double-confirm racing across two
// processes cannot notify the member twice. Claims expire on their own; a
// failed dispatch may Release early to allow a retry.
type Deduper struct {
	cli *redis.Client
}

func NewDeduper(c *Client) *Deduper {
	return &Deduper{cli: c.cli}
}

// Claim returns a release token when this caller is first for the key, or
// ("", nil) when another process already claimed it.
func (d *Deduper) Claim(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := d.cli.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

var luaRelease = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

// Release drops a claim, but only for the holder of the token.
func (d *Deduper) Release(ctx context.Context, key, token string) error {
	_, err := luaRelease.Run(ctx, d.cli, []string{key}, token).Result()
	return err
}
