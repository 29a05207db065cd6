package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInit(t *testing.T) {
	// Reset collectors for testing purposes.
	navigationsTotal = nil
	pauseSecondsTotal = nil
	entitiesReconciledTotal = nil
	httpRequestsTotal = nil

	// Call Init multiple times to test idempotency.
	Init()
	Init()

	if navigationsTotal == nil || pauseSecondsTotal == nil ||
		entitiesReconciledTotal == nil || httpRequestsTotal == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}

	// A simple check to see if a metric can be used.
	ObserveNavigation("ok", 2*time.Second)
	if val := testutil.ToFloat64(navigationsTotal.WithLabelValues("ok")); val != 1 {
		t.Errorf("Expected navigationsTotal{ok} to be 1, got %f", val)
	}

	ObserveEntity("team", "created")
	if val := testutil.ToFloat64(entitiesReconciledTotal.WithLabelValues("team", "created")); val != 1 {
		t.Errorf("Expected entitiesReconciledTotal{team,created} to be 1, got %f", val)
	}
}

func TestObserversAreSafeBeforeInit(t *testing.T) {
	saved := navigationsTotal
	savedPause := pauseSecondsTotal
	savedEntities := entitiesReconciledTotal
	savedHTTP := httpRequestsTotal
	defer func() {
		navigationsTotal = saved
		pauseSecondsTotal = savedPause
		entitiesReconciledTotal = savedEntities
		httpRequestsTotal = savedHTTP
	}()

	navigationsTotal = nil
	pauseSecondsTotal = nil
	entitiesReconciledTotal = nil
	httpRequestsTotal = nil

	// None of these should panic when Init has not run.
	ObserveNavigation("ok", time.Second)
	ObservePause("browser", time.Second)
	ObserveEntity("player", "updated")
	ObserveRun("ok", time.Minute)
	ObserveHTTPRequest("GET", "/v1/teams", 200, time.Millisecond)
}
