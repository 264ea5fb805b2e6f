package clients

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpirySeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ttl  time.Duration
		want int64
	}{
		{0, 1},
		{-time.Minute, 1},
		{500 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{24 * time.Hour, 86400},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, expirySeconds(tt.ttl), "ttl %s", tt.ttl)
	}
}
