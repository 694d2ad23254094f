package memstore

import (
	"testing"
	"time"

	"romdex/internal/domain"
	"romdex/internal/port"
)

var _ port.HistoryStore = (*MemoryStore)(nil)

func TestMemoryStore_Builds(t *testing.T) {
	s := NewMemoryStore()
	t0 := time.Now()

	s.RecordBuild(domain.BuildRecord{Platform: "sg1000", Indexed: 2, BuiltAt: t0.Add(time.Minute)})
	s.RecordBuild(domain.BuildRecord{Platform: "sg1000", Indexed: 1, BuiltAt: t0})

	last, ok, err := s.LastBuild("sg1000")
	if err != nil || !ok {
		t.Fatalf("expected a build, got ok=%v err=%v", ok, err)
	}
	if last.Indexed != 2 {
		t.Errorf("expected the most recent build, got %+v", last)
	}

	if _, ok, _ := s.LastBuild("other"); ok {
		t.Error("expected no build for an unknown platform")
	}
}

func TestMemoryStore_Downloads(t *testing.T) {
	s := NewMemoryStore()

	s.RecordDownloads([]domain.DownloadRecord{
		{Platform: "sg1000", Filename: "A.zip"},
		{Platform: "sg1000", Filename: "B.zip"},
	})

	got, err := s.Downloads("sg1000")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 downloads, got %d", len(got))
	}

	got[0].Filename = "changed"
	again, _ := s.Downloads("sg1000")
	if again[0].Filename != "A.zip" {
		t.Error("expected Downloads to return a copy")
	}
}
