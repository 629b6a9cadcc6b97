package services

import (
	"context"
	"sync"
	"testing"

	"github.com/epeers/edinetfin/internal/models"
)

func TestWarningCollector_BasicUsage(t *testing.T) {
	ctx, wc := NewWarningContext(context.Background())

	AddWarning(ctx, models.Warning{
		Code:    models.WarnRegistryDateSkipped,
		Message: "test warning 1",
	})
	addWarningf(ctx, models.WarnDownloadFailed, "filing %s: %s", "S100TOYO", "timeout")

	warnings := wc.GetWarnings()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}

	if warnings[0].Code != models.WarnRegistryDateSkipped {
		t.Errorf("expected code %s, got %s", models.WarnRegistryDateSkipped, warnings[0].Code)
	}
	if warnings[1].Code != models.WarnDownloadFailed {
		t.Errorf("expected code %s, got %s", models.WarnDownloadFailed, warnings[1].Code)
	}
	if warnings[1].Message != "filing S100TOYO: timeout" {
		t.Errorf("unexpected message %q", warnings[1].Message)
	}
}

func TestWarningCollector_NoCollectorNoPanic(t *testing.T) {
	// AddWarning with a plain context should not panic
	ctx := context.Background()
	AddWarning(ctx, models.Warning{
		Code:    models.WarnMalformedDocument,
		Message: "this should be silently dropped",
	})
}

func TestWarningCollector_EmptyByDefault(t *testing.T) {
	_, wc := NewWarningContext(context.Background())
	warnings := wc.GetWarnings()
	if len(warnings) != 0 {
		t.Errorf("expected 0 warnings, got %d", len(warnings))
	}
}

func TestWarningCollector_ConcurrentSafe(t *testing.T) {
	ctx, wc := NewWarningContext(context.Background())

	var wg sync.WaitGroup
	n := 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			AddWarning(ctx, models.Warning{
				Code:    models.WarnRegistryDateSkipped,
				Message: "concurrent warning",
			})
		}()
	}
	wg.Wait()

	warnings := wc.GetWarnings()
	if len(warnings) != n {
		t.Errorf("expected %d warnings, got %d", n, len(warnings))
	}
}

func TestWarningCollector_SurvivesDerivedContexts(t *testing.T) {
	ctx, wc := NewWarningContext(context.Background())

	child, cancel := context.WithCancel(ctx)
	defer cancel()
	AddWarning(child, models.Warning{Code: models.WarnPersistFailed, Message: "from a derived context"})

	if len(wc.GetWarnings()) != 1 {
		t.Fatalf("expected 1 warning from the derived context, got %d", len(wc.GetWarnings()))
	}
}
