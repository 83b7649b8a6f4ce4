// Package redis connects to the Redis server that backs tokens.RedisStore.
//
// Connect retries the initial ping (github.com/sethvargo/go-retry) so a
// client started alongside Redis in docker compose does not fail on the
// first attempt. Settings come from Config via pkg/config.
package redis
