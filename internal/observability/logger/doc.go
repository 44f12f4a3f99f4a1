// Package logger provides a singleton Zap logger with context-based scoping.
//
// # Design Decisions
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Context Scoping: cada request lleva su propio logger "scoped" con request_id,
//     method y path, inyectado por el middleware de logging.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//   - Security events: los guards (csrf, rate-limit) loguean con type=security y
//     component=<guard>. Nunca se loguean tokens en crudo, sólo TokenHash().
//
// # Usage
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Security(), logger.Component("csrf"))
//	log.Warn("csrf token mismatch", logger.TokenHash(tok))
package logger
