package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// HealthStatus is the readiness of one component.
type HealthStatus string

const (
	HealthStatusReady    HealthStatus = "ready"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDisabled HealthStatus = "disabled"
	HealthStatusError    HealthStatus = "error"
)

// ComponentHealth is one probe result.
type ComponentHealth struct {
	Name    string         `json:"name"`
	Status  HealthStatus   `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthProbe reports the health of a single dependency.
type HealthProbe interface {
	Check(ctx context.Context) ComponentHealth
}

// HealthCheckerImpl aggregates health probes for all components
type HealthCheckerImpl struct {
	probes []HealthProbe
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(probes ...HealthProbe) *HealthCheckerImpl {
	return &HealthCheckerImpl{probes: probes}
}

// RegisterProbe adds a health probe
func (h *HealthCheckerImpl) RegisterProbe(probe HealthProbe) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes = append(h.probes, probe)
}

// CheckAll returns health status for all components
func (h *HealthCheckerImpl) CheckAll(ctx context.Context) []ComponentHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	results := make([]ComponentHealth, 0, len(h.probes))
	for _, probe := range h.probes {
		results = append(results, probe.Check(ctx))
	}
	return results
}

// Ready is false when any component reports an error.
func Ready(results []ComponentHealth) bool {
	for _, r := range results {
		if r.Status == HealthStatusError {
			return false
		}
	}
	return true
}

// LLMProbe reports which completion provider is in use. The mock provider
// means every slide uses canned content.
type LLMProbe struct {
	Provider string
	Model    string
}

func (p LLMProbe) Check(context.Context) ComponentHealth {
	details := map[string]any{"provider": p.Provider, "model": p.Model}
	if p.Provider == "" || p.Provider == "mock" {
		return ComponentHealth{Name: "llm", Status: HealthStatusDegraded, Message: "no API key configured; using canned content", Details: details}
	}
	return ComponentHealth{Name: "llm", Status: HealthStatusReady, Details: details}
}

// ImageSearchProbe reports whether background search is configured.
type ImageSearchProbe struct {
	Enabled bool
}

func (p ImageSearchProbe) Check(context.Context) ComponentHealth {
	if !p.Enabled {
		return ComponentHealth{Name: "pexels", Status: HealthStatusDisabled, Message: "PEXELS_API_KEY not set"}
	}
	return ComponentHealth{Name: "pexels", Status: HealthStatusReady}
}

// DirectoryProbe checks that a directory exists and is writable.
type DirectoryProbe struct {
	Name string
	Dir  string
}

func (p DirectoryProbe) Check(context.Context) ComponentHealth {
	f, err := os.CreateTemp(p.Dir, ".healthz-*")
	if err != nil {
		return ComponentHealth{Name: p.Name, Status: HealthStatusError, Message: fmt.Sprintf("not writable: %v", err)}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return ComponentHealth{Name: p.Name, Status: HealthStatusReady, Details: map[string]any{"path": filepath.Clean(p.Dir)}}
}
