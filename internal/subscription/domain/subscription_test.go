package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscription_IsCurrentlyActive(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   Status
		start    time.Time
		end      time.Time
		expected bool
	}{
		{
			name:     "ActiveInsidePeriod",
			status:   StatusActive,
			start:    now.Add(-24 * time.Hour),
			end:      now.Add(24 * time.Hour),
			expected: true,
		},
		{
			name:     "ActiveButPeriodOver",
			status:   StatusActive,
			start:    now.Add(-48 * time.Hour),
			end:      now.Add(-time.Hour),
			expected: false,
		},
		{
			name:     "ActiveButPeriodNotStarted",
			status:   StatusActive,
			start:    now.Add(time.Hour),
			end:      now.Add(48 * time.Hour),
			expected: false,
		},
		{
			name:     "CanceledInsidePeriod",
			status:   StatusCanceled,
			start:    now.Add(-24 * time.Hour),
			end:      now.Add(24 * time.Hour),
			expected: false,
		},
		{
			name:     "PastDueInsidePeriod",
			status:   StatusPastDue,
			start:    now.Add(-24 * time.Hour),
			end:      now.Add(24 * time.Hour),
			expected: false,
		},
		{
			name:     "ActiveAtPeriodStart",
			status:   StatusActive,
			start:    now,
			end:      now.Add(24 * time.Hour),
			expected: true,
		},
		{
			name:     "ActiveAtPeriodEnd",
			status:   StatusActive,
			start:    now.Add(-24 * time.Hour),
			end:      now,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &Subscription{
				Status:             tt.status,
				CurrentPeriodStart: tt.start,
				CurrentPeriodEnd:   tt.end,
			}
			assert.Equal(t, tt.expected, sub.IsCurrentlyActive(now))
		})
	}
}
