package checkers

import (
	"context"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HistoryDBChecker reports whether the history archive database answers.
type HistoryDBChecker struct {
	db Pinger
}

func NewHistoryDBChecker(db Pinger) *HistoryDBChecker {
	return &HistoryDBChecker{db: db}
}

func (c *HistoryDBChecker) Name() string { return "history_db" }

func (c *HistoryDBChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return c.db.Ping(ctx)
}
