// Package api hosts the HTTP server, middleware, and REST handlers for
// reading collected data. Notable routes:
//   - GET /healthz and /readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /v1/teams and /v1/teams/{team_id}... for team data.
//   - GET /v1/players, /v1/players/{player_id} and /v1/players/search for
//     player data via the store.Reader interface.
package api
