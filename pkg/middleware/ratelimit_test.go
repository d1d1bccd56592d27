package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(3, 0)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	// 令牌耗尽后拒绝
	assert.False(t, limiter.Allow())
}

func TestRateLimiter_Refill(t *testing.T) {
	limiter := NewRateLimiter(1, 1000)
	assert.True(t, limiter.Allow())

	// 高补充速率下极短时间即恢复
	deadline := make(chan struct{})
	go func() {
		for !limiter.Allow() {
		}
		close(deadline)
	}()
	<-deadline
}
