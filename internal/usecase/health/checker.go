package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Overall statuses
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

const (
	checkOK       = "ok"
	checkDisabled = "disabled"
)

// Ping reports whether a dependency answers
type Ping func(ctx context.Context) error

// Report is the outcome of one round of checks
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Serving reports whether the process can serve requests
func (r Report) Serving() bool {
	return r.Status != StatusUnhealthy
}

// Checker pings the database and the cache.
// The database is required; a failing cache only degrades the service.
// A nil Cache is reported as disabled.
type Checker struct {
	Database Ping
	Cache    Ping
	Timeout  time.Duration
}

// NewChecker creates a new Checker instance
func NewChecker(database, cache Ping, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Checker{Database: database, Cache: cache, Timeout: timeout}
}

// Check pings both dependencies concurrently
func (c *Checker) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	var dbErr, cacheErr error
	var g errgroup.Group
	g.Go(func() error {
		dbErr = c.Database(ctx)
		return nil
	})
	if c.Cache != nil {
		g.Go(func() error {
			cacheErr = c.Cache(ctx)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Status: StatusHealthy, Checks: map[string]string{"database": checkOK, "cache": checkOK}}

	if c.Cache == nil {
		report.Checks["cache"] = checkDisabled
	} else if cacheErr != nil {
		report.Checks["cache"] = cacheErr.Error()
		report.Status = StatusDegraded
	}

	if dbErr != nil {
		report.Checks["database"] = dbErr.Error()
		report.Status = StatusUnhealthy
	}

	return report
}
