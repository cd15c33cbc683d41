package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type ReadyResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
