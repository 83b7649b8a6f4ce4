// Package async runs context-bound work in goroutines and hands back a
// typed Future.
//
// A Future started with Go completes with the function's result, or with
// the context error if the context ends first. That lets a caller tie an
// operation to its own lifetime: once the scope is gone, the outcome is
// reported as context.Canceled instead of being applied late.
//
//	f := async.Go(ctx, func(ctx context.Context) (*User, error) {
//		return client.Users().Me(ctx)
//	})
//	user, err := f.Await()
//
// WaitAll and WaitAny coordinate several futures.
package async
