// Package api hosts the status server that runs alongside a scrape.
// Routes:
//   - GET /healthz and /readyz for liveness probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /v1/runs/latest for the most recent run summary.
package api
