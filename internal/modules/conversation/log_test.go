package conversation

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLog_AppendOrderAndCopy(t *testing.T) {
	l := NewLog()
	fixed := time.Date(2025, 9, 6, 22, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Append(RoleUser, "what are the peak hours?")
	l.Append(RoleAssistant, "11:00 PM")

	got := l.Entries()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Role != RoleUser || got[1].Role != RoleAssistant {
		t.Fatalf("unexpected order: %+v", got)
	}
	if !got[0].Timestamp.Equal(fixed) {
		t.Fatalf("unexpected timestamp %v", got[0].Timestamp)
	}

	got[0].Content = "mutated"
	if l.Entries()[0].Content != "what are the peak hours?" {
		t.Fatal("Entries must return a copy")
	}
}

func TestLog_Reset(t *testing.T) {
	var l Log
	l.Append(RoleUser, "hi")
	l.Reset()
	if l.Len() != 0 {
		t.Fatalf("expected empty log, got %d", l.Len())
	}
	l.Append(RoleUser, "hello again")
	if l.Len() != 1 {
		t.Fatalf("expected 1 entry after reset, got %d", l.Len())
	}
}

func TestLog_ConcurrentAppend(t *testing.T) {
	l := NewLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Append(RoleUser, fmt.Sprintf("q%d", i))
		}(i)
	}
	wg.Wait()
	if l.Len() != 50 {
		t.Fatalf("expected 50 entries, got %d", l.Len())
	}
}
