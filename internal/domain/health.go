package domain

const (
	HealthUp   = "up"
	HealthDown = "down"
)

type ServiceHealth struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthReport is the body of GET /health.
type HealthReport struct {
	Gateway  string                   `json:"gateway"`
	Services map[string]ServiceHealth `json:"services"`
}
