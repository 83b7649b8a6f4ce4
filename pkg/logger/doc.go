// Package logger builds *slog.Logger instances with a shared set of options
// and attribute helpers.
//
// New picks a text or JSON handler, attaches static attributes and wraps the
// handler with ContextHandler, which runs every registered
// ContextExtractor before a record is written. That is how request ids and the
// environment name end up on log lines without being passed around:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "dashboard"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "sse connected", logger.Component("realtime"))
//
// Attribute helpers (Error, UserID, Event, RetryCount, Endpoint, State...) keep
// key names consistent. Error and the identifier helpers return an empty Attr
// for zero values so they can be passed unconditionally.
//
// Components in this module accept a logger through an option and fall back
// to Discard.
package logger
