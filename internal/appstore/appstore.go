// Package appstore models the remaining persisted tables the core reads and
// writes beyond OAuth tokens (spec §6): per-user configuration documents and
// goal records. Like tokenstore, it is a narrow contract onto the persistent
// store; schema and migrations are out of scope.
package appstore

import (
	"context"
	"time"
)

type (
	// Goal is a goals row. Target is a free-form JSON document whose shape
	// depends on GoalType ("distance", "time", "frequency", ...); the core
	// validates its presence and timeframe but not its business semantics.
	Goal struct {
		ID        string
		UserID    string
		GoalType  string
		Target    map[string]any
		Timeframe string
		CreatedAt time.Time
	}

	// Configuration is a user_configurations row.
	Configuration struct {
		UserID    string
		Document  map[string]any
		UpdatedAt time.Time
	}

	// Store is the contract the configuration and goal handlers require from
	// the persistent store.
	Store interface {
		CreateGoal(ctx context.Context, g Goal) (string, error)
		ListGoals(ctx context.Context, userID string) ([]Goal, error)
		GetGoal(ctx context.Context, userID, goalID string) (*Goal, error)

		GetUserConfiguration(ctx context.Context, userID string) (*Configuration, error)
		PutUserConfiguration(ctx context.Context, cfg Configuration) error
	}
)
