// Package feature keeps the dashboard's feature flags.
//
// Flags are a name to bool map served by the API. A flag the server did not
// return, or any flag while the endpoint is unreachable, reads as disabled:
//
//	flags := feature.New(client.Features())
//	_ = flags.Load(ctx)
//	if flags.IsEnabled("billing") {
//		// ...
//	}
package feature
