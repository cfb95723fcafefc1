package theme

import "testing"

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("tokyo-night").Name; got != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %q", got)
	}
	if got := ByName("nope").Name; got != FlexokiDark.Name {
		t.Errorf("unknown theme = %q, want %q", got, FlexokiDark.Name)
	}
}

func TestNamesMatchAll(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("len(Names) = %d, want %d", len(names), len(All))
	}
	for i, n := range names {
		if ByName(n).Name != All[i].Name {
			t.Errorf("Names()[%d] = %q does not round-trip", i, n)
		}
	}
}

func TestSigned(t *testing.T) {
	th := FlexokiDark
	if th.Signed(1) != th.Green || th.Signed(-1) != th.Red || th.Signed(0) != th.TextMuted {
		t.Error("Signed should map gain, loss and zero to green, red and muted")
	}
}
