package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ok(context.Context) error { return nil }

func failing(msg string) Ping {
	return func(context.Context) error { return errors.New(msg) }
}

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name        string
		database    Ping
		cache       Ping
		wantStatus  string
		wantServing bool
		wantChecks  map[string]string
	}{
		{
			name:        "all up",
			database:    ok,
			cache:       ok,
			wantStatus:  StatusHealthy,
			wantServing: true,
			wantChecks:  map[string]string{"database": "ok", "cache": "ok"},
		},
		{
			name:        "cache down degrades",
			database:    ok,
			cache:       failing("connection refused"),
			wantStatus:  StatusDegraded,
			wantServing: true,
			wantChecks:  map[string]string{"database": "ok", "cache": "connection refused"},
		},
		{
			name:        "database down",
			database:    failing("db gone"),
			cache:       ok,
			wantStatus:  StatusUnhealthy,
			wantServing: false,
			wantChecks:  map[string]string{"database": "db gone", "cache": "ok"},
		},
		{
			name:        "cache disabled",
			database:    ok,
			wantStatus:  StatusHealthy,
			wantServing: true,
			wantChecks:  map[string]string{"database": "ok", "cache": "disabled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(tt.database, tt.cache, time.Second)

			report := checker.Check(context.Background())

			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantServing, report.Serving())
			assert.Equal(t, tt.wantChecks, report.Checks)
		})
	}
}

func TestChecker_CheckAppliesTimeout(t *testing.T) {
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	checker := NewChecker(slow, nil, 10*time.Millisecond)

	report := checker.Check(context.Background())

	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.Contains(t, report.Checks["database"], "deadline")
}
