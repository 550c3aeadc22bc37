// Package api provides a signed REST client for the Kalshi trade API.
//
// Endpoints used by the pipeline:
//   - GET /markets/trades — executed trades in a UTC span (cursor-paginated)
//   - GET /markets        — market metadata by ticker set
//   - GET /events         — event metadata by event-ticker set
//
// Production base URL: https://api.elections.kalshi.com/trade-api/v2
package api
