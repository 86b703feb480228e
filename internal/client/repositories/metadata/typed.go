package metadata

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// GetBool reads a boolean flag, returning def when the key is absent.
func GetBool(ctx context.Context, r Repository, key string, def bool) (bool, error) {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return def, err
	}
	if raw == nil {
		return def, nil
	}
	v, err := strconv.ParseBool(string(raw))
	if err != nil {
		return def, fmt.Errorf("metadata[%s] is not a bool: %w", key, err)
	}
	return v, nil
}

func SetBool(ctx context.Context, r Repository, key string, v bool) error {
	return r.Set(ctx, key, []byte(strconv.FormatBool(v)))
}

// GetString returns "" for an absent key.
func GetString(ctx context.Context, r Repository, key string) (string, error) {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func SetString(ctx context.Context, r Repository, key, v string) error {
	return r.Set(ctx, key, []byte(v))
}

// GetInt returns 0 for an absent key.
func GetInt(ctx context.Context, r Repository, key string) (int, error) {
	raw, err := r.Get(ctx, key)
	if err != nil || raw == nil {
		return 0, err
	}
	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("metadata[%s] is not an int: %w", key, err)
	}
	return v, nil
}

func SetInt(ctx context.Context, r Repository, key string, v int) error {
	return r.Set(ctx, key, []byte(strconv.Itoa(v)))
}

// GetTime reads an RFC 3339 timestamp; the zero time means absent.
func GetTime(ctx context.Context, r Repository, key string) (time.Time, error) {
	raw, err := r.Get(ctx, key)
	if err != nil || raw == nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("metadata[%s] is not a timestamp: %w", key, err)
	}
	return t, nil
}

func SetTime(ctx context.Context, r Repository, key string, t time.Time) error {
	return r.Set(ctx, key, []byte(t.UTC().Format(time.RFC3339Nano)))
}
