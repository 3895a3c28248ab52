package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oikos/disc-backend/internal/config"
	"github.com/oikos/disc-backend/internal/flow"
)

// Flow state errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrStateConflict   = errors.New("flow state changed concurrently")
)

// FlowStateRepository stores per-session router state in Redis.
type FlowStateRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFlowStateRepository creates a new FlowStateRepository. Every Save
// refreshes the key's expiry to ttl.
func NewFlowStateRepository(rdb *redis.Client, ttl time.Duration) *FlowStateRepository {
	return &FlowStateRepository{rdb: rdb, ttl: ttl}
}

// Load returns the stored state for sessionID.
func (r *FlowStateRepository) Load(ctx context.Context, sessionID string) (flow.State, error) {
	raw, err := r.rdb.Get(ctx, config.CacheKey.FlowStateKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return flow.State{}, ErrSessionNotFound
		}
		return flow.State{}, fmt.Errorf("load flow state: %w", err)
	}

	var s flow.State
	if err := json.Unmarshal(raw, &s); err != nil {
		return flow.State{}, fmt.Errorf("decode flow state: %w", err)
	}
	return s, nil
}

// Save overwrites the stored state for sessionID.
func (r *FlowStateRepository) Save(ctx context.Context, sessionID string, s flow.State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode flow state: %w", err)
	}
	if err := r.rdb.Set(ctx, config.CacheKey.FlowStateKey(sessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("store flow state: %w", err)
	}
	return nil
}

// CompareAndSwap stores next only if the stored state still carries
// prev.Version. The write runs in a WATCH transaction, so a concurrent swap
// on the same session yields ErrStateConflict.
func (r *FlowStateRepository) CompareAndSwap(ctx context.Context, sessionID string, prev, next flow.State) error {
	key := config.CacheKey.FlowStateKey(sessionID)
	next.Version = prev.Version + 1
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode flow state: %w", err)
	}

	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("load flow state: %w", err)
		}
		var stored flow.State
		if err := json.Unmarshal(current, &stored); err != nil {
			return fmt.Errorf("decode flow state: %w", err)
		}
		if stored.Version != prev.Version {
			return ErrStateConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.ttl)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrStateConflict
	}
	if err != nil && !errors.Is(err, ErrStateConflict) && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("swap flow state: %w", err)
	}
	return err
}

// Exists reports whether a state is stored for sessionID.
func (r *FlowStateRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, config.CacheKey.FlowStateKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check flow state: %w", err)
	}
	return n > 0, nil
}

// Delete drops the stored state, ending the session.
func (r *FlowStateRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, config.CacheKey.FlowStateKey(sessionID)).Err()
}

// ResultPublisher announces stored results on a Redis PubSub channel.
type ResultPublisher struct {
	rdb *redis.Client
}

// NewResultPublisher creates a new ResultPublisher.
func NewResultPublisher(rdb *redis.Client) *ResultPublisher {
	return &ResultPublisher{rdb: rdb}
}

// Publish sends payload (already JSON encoded) to the results channel.
func (p *ResultPublisher) Publish(ctx context.Context, payload []byte) error {
	return p.rdb.Publish(ctx, config.CacheKey.ResultsChannel(), payload).Err()
}

// Subscribe confirms a subscription on the results channel and returns the
// published payloads. The subscription is closed, and the channel with it,
// once ctx is done.
func (p *ResultPublisher) Subscribe(ctx context.Context) (<-chan string, error) {
	ps := p.rdb.Subscribe(ctx, config.CacheKey.ResultsChannel())
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe results: %w", err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer ps.Close()
		in := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
