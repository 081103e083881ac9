package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/workbook"
)

func testRecord(id, dataset, mode string, created time.Time) *Record {
	return &Record{
		ID: id,
		Summary: workbook.Summary{
			Dataset:           dataset,
			Mode:              mode,
			NumberOfWorkbooks: 1,
			RandomSeed:        7,
			Locale:            "en",
			Tables:            2,
			PatternUsagePerSheet: map[string]workbook.PatternUsage{
				"Person": {"header": {{Value: true, Count: 1}}},
			},
		},
		CreatedAt: created,
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	records := []*Record{
		testRecord("a", "bsbm", "Clean", base),
		testRecord("b", "bsbm", "All", base.Add(time.Hour)),
		testRecord("c", "foaf", "All", base.Add(2*time.Hour)),
	}
	for _, r := range records {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save(%s): %v", r.ID, err)
		}
	}

	got, err := s.Get(ctx, "b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Summary.Mode != "All" || got.Summary.Tables != 2 {
		t.Fatalf("Get(b) = %+v", got)
	}

	missing, err := s.Get(ctx, "zzz")
	if err != nil || missing != nil {
		t.Fatalf("Get(missing) = %v, %v; want nil, nil", missing, err)
	}

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"all newest first", Query{}, []string{"c", "b", "a"}},
		{"by dataset", Query{Dataset: "bsbm"}, []string{"b", "a"}},
		{"by mode", Query{Mode: "All"}, []string{"c", "b"}},
		{"limit", Query{Limit: 1}, []string{"c"}},
		{"no match", Query{Dataset: "dbpedia"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.List(ctx, tt.q)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			var ids []string
			for _, r := range list {
				ids = append(ids, r.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("List ids = %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Fatalf("List ids = %v, want %v", ids, tt.want)
				}
			}
		})
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
	if got, _ := s.Get(ctx, "a"); got != nil {
		t.Error("record still present after Delete")
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStoreSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), testRecord("ok", "bsbm", "All", time.Now())); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(context.Background(), Query{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != "ok" {
		t.Fatalf("List = %v, want only ok", list)
	}

	if _, err := s.Get(context.Background(), "broken"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Get(broken) err = %v, want INVALID_FORMAT", err)
	}
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	for _, id := range []string{"", "..", "../x", "a/b"} {
		if _, err := s.Get(context.Background(), id); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Get(%q) err = %v, want INVALID_INPUT", id, err)
		}
	}
}

func TestNewRecord(t *testing.T) {
	r1 := NewRecord(workbook.Summary{Dataset: "bsbm"})
	r2 := NewRecord(workbook.Summary{Dataset: "bsbm"})
	if r1.ID == "" || r1.ID == r2.ID {
		t.Errorf("ids %q and %q must be unique and non-empty", r1.ID, r2.ID)
	}
	if r1.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("DATASPROUT_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("DATASPROUT_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri)
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer s.Close()
	for _, id := range []string{"a", "b", "c"} {
		_ = s.Delete(ctx, id)
	}
	exerciseStore(t, s)
}
