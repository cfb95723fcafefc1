package tui

import (
	"testing"

	"github.com/theirongolddev/pvmdash/internal/tui/components"
)

func TestTabAtMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}

		for row := 0; row*components.TabsPerRow < len(components.Tabs); row++ {
			pos := 0
			first := row * components.TabsPerRow
			for i := first; i < min(first+components.TabsPerRow, len(components.Tabs)); i++ {
				w := components.TabVisualWidth(components.Tabs[i], i == active)
				x := pos + w/2
				if got := a.tabAt(x, row); got != i {
					t.Fatalf("active=%d row=%d x=%d -> tab=%d, want %d", active, row, x, got, i)
				}
				pos += w + 1
			}
		}
	}
}

func TestTabAtOutsideBar(t *testing.T) {
	a := App{}
	if got := a.tabAt(3, 2); got != -1 {
		t.Errorf("filter line click = %d, want -1", got)
	}
	if got := a.tabAt(500, 0); got != -1 {
		t.Errorf("click past the last tab = %d, want -1", got)
	}
}
