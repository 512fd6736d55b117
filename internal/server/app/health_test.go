package app

import (
	"context"
	"path/filepath"
	"testing"
)

type stubProbe struct {
	health ComponentHealth
}

func (s stubProbe) Check(context.Context) ComponentHealth { return s.health }

func TestHealthChecker(t *testing.T) {
	t.Run("registers and checks probes", func(t *testing.T) {
		checker := NewHealthChecker()
		checker.RegisterProbe(stubProbe{health: ComponentHealth{Name: "test_component", Status: HealthStatusReady}})

		results := checker.CheckAll(context.Background())
		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
		if results[0].Name != "test_component" {
			t.Errorf("Expected name 'test_component', got '%s'", results[0].Name)
		}
		if !Ready(results) {
			t.Error("Expected ready")
		}
	})

	t.Run("degraded and disabled stay ready", func(t *testing.T) {
		checker := NewHealthChecker(
			LLMProbe{Provider: "mock"},
			ImageSearchProbe{Enabled: false},
		)
		results := checker.CheckAll(context.Background())
		if results[0].Status != HealthStatusDegraded {
			t.Errorf("Expected llm degraded, got '%s'", results[0].Status)
		}
		if results[1].Status != HealthStatusDisabled {
			t.Errorf("Expected pexels disabled, got '%s'", results[1].Status)
		}
		if !Ready(results) {
			t.Error("Expected degraded components to keep the service ready")
		}
	})

	t.Run("configured provider is ready", func(t *testing.T) {
		got := LLMProbe{Provider: "groq", Model: "llama-3.3-70b-versatile"}.Check(context.Background())
		if got.Status != HealthStatusReady {
			t.Errorf("Expected ready, got '%s'", got.Status)
		}
		if got.Details["model"] != "llama-3.3-70b-versatile" {
			t.Errorf("Expected model detail, got %v", got.Details)
		}
	})
}

func TestDirectoryProbe(t *testing.T) {
	t.Parallel()

	ok := DirectoryProbe{Name: "output_dir", Dir: t.TempDir()}.Check(context.Background())
	if ok.Status != HealthStatusReady {
		t.Fatalf("Expected ready, got '%s': %s", ok.Status, ok.Message)
	}

	missing := DirectoryProbe{Name: "output_dir", Dir: filepath.Join(t.TempDir(), "nope")}.Check(context.Background())
	if missing.Status != HealthStatusError {
		t.Fatalf("Expected error, got '%s'", missing.Status)
	}
	if Ready([]ComponentHealth{ok, missing}) {
		t.Error("Expected an unwritable directory to fail readiness")
	}
}
