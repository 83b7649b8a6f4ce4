// Package clientip resolves the address of the visitor behind the proxies
// in front of the dashboard and carries it in the request context so log
// records can include it.
//
//	r.Use(clientip.Middleware)
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
//
// Forwarding headers are trusted as sent. Run the dashboard behind a proxy
// that overwrites them.
package clientip
