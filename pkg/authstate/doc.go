// Package authstate is the dashboard's session store.
//
// A Store sits on top of an apiclient.Client. It resolves the stored session
// on startup, signs users in and out, and keeps three things in step: the
// State snapshot, the token store and the app_authenticated cookie. When the
// API client reports an expired session the Store drops back to anonymous
// without calling the server.
//
//	store := authstate.New(client, authstate.WithCookie(jar))
//	defer store.Close()
//
//	store.Initialize(ctx)
//	if !store.IsAuthenticated() {
//		if _, err := store.Login(ctx, authstate.LoginCredentials{Email: e, Password: p}); err != nil {
//			fmt.Println(store.State().Error)
//		}
//	}
package authstate
