// Package store persists profiles, daily logs, food entries and
// recommendations. Two implementations share one contract: Postgres (pgx) for
// deployments and SQLite for local runs and tests. Every multi-statement
// mutation runs inside a single transaction.
package store

import (
	"context"
	"fmt"

	"lg/nutri-track-api/internal/model"
)

// Store is the persistence capability handed to the services.
type Store interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (model.User, error)
	FindUserByUsername(ctx context.Context, username string) (model.User, error)

	FindProfile(ctx context.Context, userID int) (model.Profile, error)
	UpdateProfile(ctx context.Context, userID int, patch model.ProfilePatch) (bool, error)

	// UpsertLog returns the log for (userID, date), creating a zeroed one in
	// the same statement when none exists.
	UpsertLog(ctx context.Context, userID int, date model.DateOnly) (model.DailyLog, error)
	GetLog(ctx context.Context, logID int64) (model.DailyLog, error)
	// AddFoodEntry inserts the entry and increments the log totals atomically.
	AddFoodEntry(ctx context.Context, logID int64, e model.NewFoodEntry) (int64, error)
	PatchLog(ctx context.Context, logID int64, patch model.LogPatch) (bool, error)
	ListEntries(ctx context.Context, logID int64) ([]model.FoodEntry, error)
	LogsBetween(ctx context.Context, userID int, start, end model.DateOnly) ([]model.DailyLog, error)
	TotalsDrift(ctx context.Context) ([]model.LogDrift, error)

	// ReplaceRecommendations deactivates the user's active rows and inserts
	// batch in one transaction, returning the stored rows in batch order.
	ReplaceRecommendations(ctx context.Context, userID int, batch []model.Recommendation) ([]model.Recommendation, error)
	ListRecommendations(ctx context.Context, userID int, includeInactive bool) ([]model.Recommendation, error)

	Migrate(ctx context.Context) ([]string, error)
	Close()
}

// Drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the configured backend. dsn is a Postgres URL or a SQLite
// file path depending on driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	case DriverSQLite, "":
		return OpenSQLite(dsn)
	}
	return nil, fmt.Errorf("unknown db driver %q", driver)
}

// driftTolerance absorbs float summation-order differences between the
// incrementally maintained totals and a fresh SUM over entries.
const driftTolerance = 1e-6
