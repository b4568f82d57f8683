package screen

import "testing"

func TestListenersDetach(t *testing.T) {
	var l listeners
	var calls []int
	detachA := l.add(func(w, h int) { calls = append(calls, w) })
	l.add(func(w, h int) { calls = append(calls, h) })

	l.notify(3, 4)
	if len(calls) != 2 {
		t.Fatalf("notified %d listeners, want 2", len(calls))
	}

	detachA()
	detachA()
	calls = nil
	l.notify(5, 6)
	if len(calls) != 1 || calls[0] != 6 {
		t.Fatalf("after detach calls = %v, want [6]", calls)
	}
	if l.len() != 1 {
		t.Fatalf("len = %d, want 1", l.len())
	}
}
