package persist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicyNextDelayGrowsAndClamps(t *testing.T) {
	p := RetryPolicy{InitialDelay: 100 * time.Millisecond, MaxDelay: 350 * time.Millisecond, BackoffFactor: 2}

	assert.Equal(t, 100*time.Millisecond, p.NextDelay(1))
	assert.Equal(t, 200*time.Millisecond, p.NextDelay(2))
	assert.Equal(t, 350*time.Millisecond, p.NextDelay(3))
	assert.Equal(t, 350*time.Millisecond, p.NextDelay(10))
}

func TestRetryPolicyZeroValueUsesDefaults(t *testing.T) {
	var p RetryPolicy
	def := DefaultRetryPolicy()

	assert.Equal(t, def.InitialDelay, p.NextDelay(1))
	assert.Equal(t, 2*def.InitialDelay, p.NextDelay(2))
	assert.Positive(t, def.MaxRetries)
}
