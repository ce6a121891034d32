package dto

// Provider constants
const (
	ProviderGoogle  = "google"
	ProviderOutlook = "outlook"
)

// Actions accepted by the calendar action endpoint
const (
	ActionSync       = "sync"
	ActionGetAuthURL = "get-auth-url"
	ActionDisconnect = "disconnect"
	ActionStatus     = "status"
)

// ValidProvider reports whether the given provider name is supported.
func ValidProvider(provider string) bool {
	return provider == ProviderGoogle || provider == ProviderOutlook
}

// ActionRequest is the body of the calendar action endpoint.
type ActionRequest struct {
	Action   string `json:"action"`
	Provider string `json:"provider,omitempty"`
}

// SyncResponse reports the outcome of one sync invocation.
type SyncResponse struct {
	Success bool `json:"success"`
	Pushed  int  `json:"pushed"`
	Errors  int  `json:"errors"`
}

// AuthURLResponse carries the provider authorization URL.
type AuthURLResponse struct {
	URL string `json:"url"`
}

// DisconnectResponse acknowledges a disconnect request.
type DisconnectResponse struct {
	Success bool `json:"success"`
}

// ConnectionInfo is the token-free view of a stored connection.
type ConnectionInfo struct {
	Provider       string  `json:"provider"`
	Email          string  `json:"email"`
	ConnectedAt    string  `json:"connected_at"`
	TokenExpiresAt *string `json:"token_expires_at"`
}

// StatusResponse lists the caller's calendar connections.
type StatusResponse struct {
	Connections []ConnectionInfo `json:"connections"`
}

// ErrorResponse is the error body returned by the action endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}
