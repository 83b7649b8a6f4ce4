package dashboard

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/golid-ai/dashkit/pkg/logger"
	"github.com/golid-ai/dashkit/pkg/requestid"
)

// newProxy forwards /api requests to the backend unchanged. Responses are
// flushed immediately so event streams pass through.
func newProxy(target *url.URL, log *slog.Logger) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			requestid.Apply(pr.Out)
		},
		FlushInterval: -1,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.WarnContext(r.Context(), "backend unreachable", logger.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"message":"Unable to reach the server. Please try again later.","code":"server_unreachable"}`))
		},
	}
}
