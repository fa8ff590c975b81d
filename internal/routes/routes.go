package routes

const (
	// Health
	Health = "/health"

	// Tenant endpoints
	PoolRequests       = "/api/v1/pool/requests"
	PoolRequestByID    = "/api/v1/pool/requests/{id}"
	PoolRequestMatches = "/api/v1/pool/requests/{id}/matches"

	// Landlord endpoints
	PoolMatchesViewed  = "/api/v1/pool/matches/viewed"
	PoolMatchesDecline = "/api/v1/pool/matches/decline"

	// Listing-side matching trigger
	PoolPropertyMatch = "/api/v1/pool/properties/{id}/match"

	// Public stats
	PoolStats = "/api/v1/pool/stats"
)
