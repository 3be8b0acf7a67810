package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configure the redis connection.
type Options struct {
	Host      string
	Port      string
	Password  string
	DB        int
	Timeout   time.Duration
	KeyPrefix string
}

// Redis keeps handles as plain keys; SETNX makes Reserve atomic across
// processes sharing one server.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, opts Options) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		DialTimeout: opts.Timeout,
		Password:    opts.Password,
		DB:          opts.DB,
	})
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if pong != "PONG" {
		_ = client.Close()
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "deckhand:handle:"
	}
	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) key(handle string) string { return r.prefix + handle }

func (r *Redis) Reserve(ctx context.Context, handle string) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.key(handle), string(StateOpen), 0).Result()
	if err != nil {
		return false, fmt.Errorf("reserve %s: %w", handle, err)
	}
	return ok, nil
}

func (r *Redis) Retire(ctx context.Context, handle string) error {
	ok, err := r.client.SetXX(ctx, r.key(handle), string(StateRetired), redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("retire %s: %w", handle, err)
	}
	if !ok {
		return fmt.Errorf("handle %s was never reserved", handle)
	}
	return nil
}

// State reports what the server knows about handle.
func (r *Redis) State(ctx context.Context, handle string) (State, bool, error) {
	v, err := r.client.Get(ctx, r.key(handle)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return State(v), true, nil
}

func (r *Redis) Close() error { return r.client.Close() }
