package routechange

import "testing"

func TestHasChangedFalseOnZeroMagnitude(t *testing.T) {
	d := NewDetector(5)
	if d.HasChanged(0, 0, 0, 0, 10) {
		t.Fatalf("zero-magnitude delta should never report a change")
	}
}

func TestHasChangedFalseUntilTwoSamples(t *testing.T) {
	d := NewDetector(5)
	if d.HasChanged(0, 0, 1, 0, 10) {
		t.Fatalf("a single sample should never report a change")
	}
}

func TestHasChangedFalseWhenDirectionIsSteady(t *testing.T) {
	d := NewDetector(5)
	for i := 0; i < 5; i++ {
		if d.HasChanged(0, 0, 1, 0, 10) {
			t.Fatalf("steady direction should never exceed threshold")
		}
	}
}

func TestHasChangedTrueOnSharpTurn(t *testing.T) {
	d := NewDetector(5)
	for i := 0; i < 4; i++ {
		d.HasChanged(0, 0, 1, 0, 10)
	}
	if !d.HasChanged(0, 0, 0, 1, 10) {
		t.Fatalf("a 90-degree turn against a steady history should exceed a 10-degree threshold")
	}
}

func TestResetClearsHistory(t *testing.T) {
	d := NewDetector(5)
	d.HasChanged(0, 0, 1, 0, 10)
	d.HasChanged(0, 0, 1, 0, 10)
	d.Reset()
	if d.HasChanged(0, 0, 0, 1, 10) {
		t.Fatalf("a single sample after reset should never report a change")
	}
}
