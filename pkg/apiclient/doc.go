// Package apiclient is the HTTP client for the dashboard's versioned JSON
// API.
//
// Every call goes to BaseURL + "/api/v1" + path. When a token store holds an
// access token it is sent as a bearer token unless the call uses SkipAuth.
// Failures come back in one of two shapes:
//
//   - *Error for a non-2xx response, with the server's message, code and
//     optional field details. Proxy error pages are reported with the
//     server_unreachable code.
//   - *TransportError when no response arrived at all.
//
// ErrorMessage turns either into text fit for a form or toast.
//
// A 401 on an authenticated call triggers one token refresh (shared by all
// concurrent callers) followed by a retry. If that is not possible the
// stored tokens are cleared and a SessionExpired message is published to
// subscribers of Client.SessionExpired.
//
// Basic usage:
//
//	client := apiclient.New("https://api.example.com",
//		apiclient.WithTokenStore(tokens.NewMemoryStore()),
//		apiclient.WithLogger(log),
//	)
//	user, err := client.Users().Me(ctx)
//	if err != nil {
//		fmt.Println(apiclient.ErrorMessage(err))
//	}
package apiclient
