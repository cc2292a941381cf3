// Package logger builds *slog.Logger values with functional options,
// environment presets and context-driven attributes.
//
// New creates a text or JSON handler, applies static attributes, and wraps the
// result in LogHandlerDecorator, which runs every registered ContextExtractor
// when a record is handled. That is how request ids and the deployment
// environment end up on each line without being passed around explicitly.
//
//	log := logger.New(
//		logger.WithEnvironment(env, "flagd"),
//		logger.WithConfig(logCfg),
//		logger.WithContextExtractors(
//			requestid.LoggerExtractor(),
//			environment.LoggerExtractor(),
//		),
//	)
//
// attr.go holds helpers that keep attribute keys consistent: Flag, State,
// Storage and Source for feature resolution, plus Error/Errors which return an
// empty attribute for nil errors so callers can log unconditionally.
package logger
