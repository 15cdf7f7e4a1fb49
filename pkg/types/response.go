package types

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// StatusResponse is the tiny acknowledgement body used by delete and
// transition endpoints ({"status":"deleted"}, {"status":"sent"}, ...).
type StatusResponse struct {
	Status string `json:"status"`
}
