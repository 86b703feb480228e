// Package common contains the error taxonomy and shared constants used by the
// invoice synchronization core.
package common

// Metadata keys persisted in the local key-value store.
const (
	// LastModeWasMockKey records whether the cache was last filled from the
	// simulated backend.
	LastModeWasMockKey = "last_mode_was_mock"

	LastSyncAtKey     = "last_sync_at"
	LastSyncCountKey  = "last_sync_count"
	LastSyncDigestKey = "last_sync_digest"
)

// RequestIDHeaderName carries the sync id on outbound remote calls.
const RequestIDHeaderName = "x-request-id"
