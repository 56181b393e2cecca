package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/stockkeeper/pkg/cache"
	"github.com/ghuser/stockkeeper/pkg/config"
	"github.com/ghuser/stockkeeper/pkg/database"
	"github.com/ghuser/stockkeeper/pkg/events"
	"github.com/ghuser/stockkeeper/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Pass it to every bounded context's route registration during server start.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context methods
// and trace_id, span_id, request_id and actor_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "stock adjusted", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to commit", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
//
// EventBus and Redis are optional; services degrade to no notifications and
// uncached reads when they are nil.
type Application struct {
	Config       *config.Config
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	SessionStore sessions.Store // Redis-backed session store; nil in worker and CLI processes
}
