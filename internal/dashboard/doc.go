// Package dashboard wires the HTTP surface of the dashboard binary: probes,
// the /api proxy to the backend, runtime client config and the page shell
// behind the route gate.
package dashboard
