package config

import (
	"fmt"
	"time"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// FlowStateKey returns the cache key holding a session's router state.
func (r *CacheKeyStruct) FlowStateKey(sessionID string) string {
	return fmt.Sprintf("session:%s:flow", sessionID)
}

// LoginRateKey returns the fixed-window counter key for login attempts from ip.
func (r *CacheKeyStruct) LoginRateKey(ip string, window time.Time) string {
	return fmt.Sprintf("ratelimit:login:%s:%d", ip, window.Unix())
}

// ResultsChannel returns the Redis PubSub channel announcing new results.
func (r *CacheKeyStruct) ResultsChannel() string {
	return "results:created"
}

var CacheKey = NewCacheKeyStruct()
