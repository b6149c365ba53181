package stats

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_StatsConservation tests that every tab's total equals the
// sum of its synced, error, and skipped counters after any sequence of
// operations.
func TestProperty_StatsConservation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total == synced + error + skipped", prop.ForAll(
		func(ops []int) bool {
			collector := NewCollector("Items")
			for _, op := range ops {
				switch op % 3 {
				case 0:
					collector.AddSynced("Items")
				case 1:
					collector.AddError("Items")
				case 2:
					collector.AddSkipped("Items")
				}
			}
			counters := collector.Counters("Items")
			return counters.Total == counters.Synced+counters.Error+counters.Skipped
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.Property("counters are non-decreasing", prop.ForAll(
		func(ops []int) bool {
			collector := NewCollector("Items")
			previous := collector.Counters("Items")
			for _, op := range ops {
				switch op % 3 {
				case 0:
					collector.AddSynced("Items")
				case 1:
					collector.AddError("Items")
				case 2:
					collector.AddSkipped("Items")
				}
				current := collector.Counters("Items")
				if current.Synced < previous.Synced ||
					current.Error < previous.Error ||
					current.Skipped < previous.Skipped ||
					current.Total < previous.Total {
					return false
				}
				previous = current
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCollectorHasErrors(t *testing.T) {
	collector := NewCollector("General", "Items")
	if collector.HasErrors() {
		t.Errorf("expected no errors on a fresh collector")
	}

	collector.AddSynced("General")
	collector.AddSkipped("Items")
	if collector.HasErrors() {
		t.Errorf("expected no errors after synced and skipped rows")
	}

	collector.AddError("Items")
	if !collector.HasErrors() {
		t.Errorf("expected errors after an error row")
	}
}

func TestCollectorTabOrder(t *testing.T) {
	collector := NewCollector("General", "Settings")
	collector.AddSynced("Items")

	tabs := collector.Tabs()
	want := []string{"General", "Settings", "Items"}
	if len(tabs) != len(want) {
		t.Fatalf("expected %d tabs, got %d", len(want), len(tabs))
	}
	for i, tab := range want {
		if tabs[i] != tab {
			t.Errorf("expected tab %d to be %s, got %s", i, tab, tabs[i])
		}
	}
}

func TestCollectorUnknownTab(t *testing.T) {
	collector := NewCollector()
	counters := collector.Counters("Items")
	if counters.Total != 0 {
		t.Errorf("expected zero counters for an unknown tab, got %+v", counters)
	}
}

func TestErrorMessages(t *testing.T) {
	messages := NewErrorMessages()
	if !messages.Empty() {
		t.Errorf("expected a fresh collector to be empty")
	}

	messages.Add("Templates", "", "Required tab doesn't exist")
	messages.Add("General", "Product Name", "Required field value is not provided")

	if messages.Empty() {
		t.Errorf("expected collector to be non-empty after Add")
	}
	recorded := messages.Messages()
	if len(recorded) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(recorded))
	}
	if recorded[0].Section != "Templates" || recorded[0].Text != "Required tab doesn't exist" {
		t.Errorf("unexpected first message: %+v", recorded[0])
	}
	if recorded[1].Item != "Product Name" {
		t.Errorf("unexpected second message: %+v", recorded[1])
	}
}
