package store

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
	"github.com/matzehuels/antscheduler/pkg/io"
)

func TestNewRecord(t *testing.T) {
	rec := NewRecord("jobs.csv", "abc", 3, io.RunDocument{Variant: "AntSystem", Makespan: 5})
	if !ValidID(rec.ID) {
		t.Errorf("ID %q is not a valid uuid", rec.ID)
	}
	if rec.CreatedAt.IsZero() || rec.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v", rec.CreatedAt)
	}
	if other := NewRecord("jobs.csv", "abc", 3, io.RunDocument{}); other.ID == rec.ID {
		t.Error("IDs must be unique")
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"", false},
		{"not-a-uuid", false},
		{"../etc/passwd", false},
	}
	for _, tt := range tests {
		if got := ValidID(tt.id); got != tt.want {
			t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		rec := NewRecord("g.csv", "h", 2, io.RunDocument{Makespan: float64(10 + i)})
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, rec.ID)
	}

	got, err := s.Get(ctx, ids[1])
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Run.Makespan != 11 {
		t.Errorf("Makespan = %g, want 11", got.Run.Makespan)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List returned %d records", len(list))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if list[i].ID != want {
			t.Errorf("List[%d] = %s, want %s (newest first)", i, list[i].ID, want)
		}
	}

	limited, _ := s.List(ctx, 2)
	if len(limited) != 2 || limited[0].ID != ids[2] {
		t.Errorf("List(2) = %d records", len(limited))
	}

	// saving an existing ID replaces the record
	got.Cached = true
	if err := s.Save(ctx, got); err != nil {
		t.Fatal(err)
	}
	if again, _ := s.Get(ctx, got.ID); !again.Cached {
		t.Error("Save did not replace the record")
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	_, err := NewMemoryStore().Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("code = %v", apperrors.GetCode(err))
	}
}
