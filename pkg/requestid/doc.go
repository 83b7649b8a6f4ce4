// Package requestid propagates X-Request-ID correlation identifiers.
//
// Middleware assigns an id to every incoming request of the dashboard server.
// Apply stamps outgoing API calls made by the client packages, reusing the id
// already in the context so a page render and the API calls it triggers share
// one id in the logs. LoggerExtractor feeds the id into pkg/logger.
package requestid
