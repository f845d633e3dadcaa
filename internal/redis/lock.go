package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis holds pending OTP codes keyed by email. A code is locked with SETNX so
// a second request cannot overwrite one that is still live.
type Redis struct {
	Client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{Client: client}
}

func otpKey(email string) string {
	return "OTP_lock:" + email
}

func failKey(email string) string {
	return "OTP_fail:" + email
}

// AddOTP stores the hashed code for email if none is pending. A new code
// starts with a clean failure count.
func (r *Redis) AddOTP(ctx context.Context, email, hash string, ttl time.Duration) (bool, error) {
	ok, err := r.Client.SetNX(ctx, otpKey(email), hash, ttl).Result()
	if err != nil || !ok {
		return ok, err
	}
	return true, r.Client.Del(ctx, failKey(email)).Err()
}

// GetOTP returns the pending hash, or "" when there is none.
func (r *Redis) GetOTP(ctx context.Context, email string) (string, error) {
	val, err := r.Client.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// RecordFailure increments the wrong-guess counter for email and returns it.
func (r *Redis) RecordFailure(ctx context.Context, email string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, failKey(email))
		pipe.Expire(ctx, failKey(email), ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *Redis) RemoveOTP(ctx context.Context, email string) error {
	return r.Client.Del(ctx, otpKey(email), failKey(email)).Err()
}
