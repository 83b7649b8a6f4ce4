// Package realtime keeps a server-sent events stream open for the signed-in
// user and fans named events out to handlers.
//
// Every connection starts with a one-time ticket from POST /events/ticket,
// passed as ?ticket= on GET /events/stream. When the stream ends or cannot
// be opened, the client schedules exactly one reconnect with exponential
// backoff (1s doubling to 30s, 20% jitter by default). Before reconnecting
// it refreshes the access token when a refresh token is stored. A refresh
// the server rejects ends reconnection until Connect is called again; a
// network failure just backs off further.
//
//	rt := realtime.New(api, realtime.WithLogger(log))
//	defer rt.Close()
//
//	unsubscribe := rt.OnNotification(func(n realtime.Notification) {
//		fmt.Println(n.Message)
//	})
//	defer unsubscribe()
//
//	_ = rt.Connect(ctx)
package realtime
