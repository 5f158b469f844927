package nav

import "testing"

func TestBackForwardRoundTrip(t *testing.T) {
	h := New("/home")
	h.Visit("/home/docs")
	h.Visit("/home/docs/work")

	dir, ok := h.Back()
	if !ok || dir != "/home/docs" {
		t.Fatalf("Back returned %q, %v; want /home/docs, true", dir, ok)
	}

	dir, ok = h.Forward()
	if !ok || dir != "/home/docs/work" {
		t.Fatalf("Forward returned %q, %v; want /home/docs/work, true", dir, ok)
	}

	if h.Current() != "/home/docs/work" {
		t.Errorf("Current = %q after back+forward, want original directory", h.Current())
	}
}

func TestBackAtStart(t *testing.T) {
	h := New("/home")

	if h.CanBack() {
		t.Error("CanBack should be false with a single entry")
	}
	if _, ok := h.Back(); ok {
		t.Error("Back should fail with a single entry")
	}
	if _, ok := h.Forward(); ok {
		t.Error("Forward should fail with a single entry")
	}
}

func TestVisitTruncatesForward(t *testing.T) {
	h := New("/a")
	h.Visit("/b")
	h.Visit("/c")

	h.Back() // at /b
	h.Visit("/d")

	if h.CanForward() {
		t.Error("forward history should be discarded after a new visit")
	}

	dir, _ := h.Back()
	if dir != "/b" {
		t.Errorf("Back after truncation returned %q, want /b", dir)
	}
}

func TestVisitSameDirIsNoOp(t *testing.T) {
	h := New("/a")
	h.Visit("/b")
	h.Visit("/b")

	if h.Len() != 2 {
		t.Errorf("history has %d entries, want 2", h.Len())
	}
}

func TestHistoryBounded(t *testing.T) {
	h := New("/start")
	for i := 0; i < maxEntries*2; i++ {
		h.Visit("/dir" + string(rune('a'+i%26)) + "/" + string(rune('0'+i%10)))
	}

	if h.Len() > maxEntries {
		t.Errorf("history grew to %d entries, cap is %d", h.Len(), maxEntries)
	}
	if !h.CanBack() {
		t.Error("bounded history should still allow going back")
	}
}
