// Package api exposes a read-only REST surface for inspecting the relay's
// live rooms.
//
// Endpoints:
//   - GET /api/games        — carried games and their upgrade paths
//   - GET /api/rooms        — room snapshots, optionally ?game= filtered
//   - GET /api/rooms/{id}   — one room with its player slots
//   - GET /healthz          — liveness check
//
// The API never mutates relay state; all data comes from point-in-time
// room snapshots, so serving it contends only on read locks.
package api
