package editor

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestGutterWidthFor(t *testing.T) {
	tests := []struct {
		blocks int
		want   int
	}{
		{0, 3},
		{1, 3},
		{9, 3},
		{10, 4},
		{99, 4},
		{100, 5},
		{12345, 7},
	}
	for _, tt := range tests {
		if got := gutterWidthFor(tt.blocks); got != tt.want {
			t.Fatalf("gutterWidthFor(%d) = %d, want %d", tt.blocks, got, tt.want)
		}
	}
}

func TestGutterWidthNonDecreasing(t *testing.T) {
	prev := gutterWidthFor(1)
	for n := 2; n <= 100000; n++ {
		w := gutterWidthFor(n)
		if w < prev {
			t.Fatalf("width dropped from %d to %d at %d blocks", prev, w, n)
		}
		prev = w
	}
}

func TestGutterFollowsBlockCount(t *testing.T) {
	s := DefaultSettings()
	e := New(s)
	defer e.Close()
	if got := e.GutterWidth(); got != 3 {
		t.Fatalf("empty document gutter = %d, want 3", got)
	}

	e.SetText(strings.Repeat("x\n", 9) + "x")
	if got := e.GutterWidth(); got != 4 {
		t.Fatalf("10 blocks gutter = %d, want 4", got)
	}
	if e.ViewportMargin() != e.GutterWidth() {
		t.Fatalf("margin %d != gutter %d", e.ViewportMargin(), e.GutterWidth())
	}

	e.HandleKey(ctrl(tcell.KeyCtrlZ))
	if got := e.GutterWidth(); got != 3 {
		t.Fatalf("after undo gutter = %d, want 3", got)
	}
}

func TestToggleLineNumbersRestoresMargin(t *testing.T) {
	e := newTestEditor("a", "b")
	before := e.ViewportMargin()
	if before != 0 || e.GutterWidth() != 0 {
		t.Fatalf("margin %d, gutter %d without line numbers", before, e.GutterWidth())
	}

	e.SetUseLineNumbers(true)
	if e.ViewportMargin() != gutterWidthFor(2) {
		t.Fatalf("margin with gutter = %d", e.ViewportMargin())
	}
	e.SetUseLineNumbers(false)
	if e.ViewportMargin() != before {
		t.Fatalf("margin after toggle = %d, want %d", e.ViewportMargin(), before)
	}
}

func TestGutterSubscriptionsReleased(t *testing.T) {
	e := newTestEditor("a")
	e.SetUseLineNumbers(true)
	e.SetUseLineNumbers(true)
	if n := e.blockCountChanged.len(); n != 1 {
		t.Fatalf("blockCountChanged subscribers = %d, want 1", n)
	}
	if e.updateRequest.len() != 1 || e.cursorPositionChanged.len() != 1 {
		t.Fatal("gutter not subscribed to every signal")
	}

	g := e.gutter
	e.SetUseLineNumbers(false)
	if e.blockCountChanged.len()+e.updateRequest.len()+e.cursorPositionChanged.len() != 0 {
		t.Fatal("subscriptions survive gutter teardown")
	}
	if e.gutter != nil {
		t.Fatal("gutter still attached")
	}

	// A stale gutter must not move the margin any more.
	e.SetText("1\n2\n3\n4\n5\n6\n7\n8\n9\n10")
	if e.ViewportMargin() != 0 || g.Width() != gutterWidthFor(1) {
		t.Fatalf("margin %d, stale gutter width %d", e.ViewportMargin(), g.Width())
	}
}

func TestSignalDisconnect(t *testing.T) {
	var sig signal[int]
	var got []int
	off := sig.connect(func(v int) { got = append(got, v) })
	sig.connect(func(v int) { got = append(got, v*10) })
	sig.emit(1)
	off()
	off()
	sig.emit(2)
	if want := []int{1, 10, 20}; len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("got %v, want %v", got, want)
	}
	if sig.len() != 1 {
		t.Fatalf("len = %d", sig.len())
	}
}
