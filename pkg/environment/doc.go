// Package environment carries the deployment environment (development,
// staging, production) through context.Context.
//
// The dashboard server installs Middleware so request handlers and the
// logger (via LoggerExtractor) see the environment without it being passed
// explicitly. Parse turns the APP_ENV value into an Environment.
package environment
