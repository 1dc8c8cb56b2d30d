package metrics

import (
	"slices"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func TestRegistry(t *testing.T) {
	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}

	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pokedex_registry_test_total",
		Help: "Counter registered through Registry",
	})
	if err := Registry.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	defer Registry.Unregister(c)
	c.Inc()

	names, err := Families()
	if err != nil {
		t.Fatalf("Families failed: %v", err)
	}
	if !slices.Contains(names, "pokedex_registry_test_total") {
		t.Errorf("expected pokedex_registry_test_total in %v", names)
	}
}

func TestFamilies(t *testing.T) {
	c := promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokedex_metrics_test_total",
		Help: "Counter registered by the metrics package tests",
	})
	c.Inc()

	names, err := Families()
	if err != nil {
		t.Fatalf("Families failed: %v", err)
	}

	found := false
	for _, name := range names {
		if !strings.HasPrefix(name, "pokedex_") {
			t.Errorf("unexpected family %q", name)
		}
		if name == "pokedex_metrics_test_total" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected pokedex_metrics_test_total in %v", names)
	}
}
