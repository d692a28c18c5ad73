package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpoint(t *testing.T) {
	tests := []struct {
		raw      string
		host     string
		path     string
		insecure bool
	}{
		{"", "localhost:4318", "/v1/traces", true},
		{"http://jaeger:4318/v1/traces", "jaeger:4318", "/v1/traces", true},
		{"https://otel.example.com/custom", "otel.example.com", "/custom", false},
		{"collector:4318", "collector:4318", "/v1/traces", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			host, path, insecure := Endpoint(tt.raw)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.path, path)
			assert.Equal(t, tt.insecure, insecure)
		})
	}
}
