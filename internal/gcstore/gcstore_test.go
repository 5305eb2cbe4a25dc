package gcstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/coreclj/coreclj/internal/gc"
)

func TestRecordAndHistory(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "gc.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	h := gc.New(1024)
	for i := int64(1); i <= 3; i++ {
		if err := s.RecordCollection(ctx, i, h.Stats()); err != nil {
			t.Fatalf("RecordCollection(%d): %v", i, err)
		}
	}

	rows, err := s.History(ctx, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].Seq != 3 {
		t.Errorf("newest-first ordering broken: got Seq=%d, want 3", rows[0].Seq)
	}
}
