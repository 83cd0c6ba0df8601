package store

import (
	"context"
	"path/filepath"
	"testing"

	"fintidy"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "verdicts.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "ab12f"); err != nil || ok {
		t.Fatalf("Get on an empty store = ok %v, err %v", ok, err)
	}

	if err := s.Put(ctx, "ab12f", "spending/shoulds/grocery", fintidy.OriginLLM); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	v, ok, err := s.Get(ctx, "ab12f")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v, err %v", ok, err)
	}
	if v.Category != "spending/shoulds/grocery" || v.Origin != fintidy.OriginLLM {
		t.Errorf("verdict = %+v", v)
	}
	if v.AssignedAt.IsZero() {
		t.Errorf("AssignedAt should be set")
	}
}

func TestPutReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "ab12f", "spending/uncategorized", fintidy.OriginLLM); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "ab12f", "spending/needs/home", fintidy.OriginManual); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(ctx, "ab12f")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v, err %v", ok, err)
	}
	if v.Category != "spending/needs/home" || v.Origin != fintidy.OriginManual {
		t.Errorf("verdict = %+v, want the replacement", v)
	}
}

func TestAll(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, fp := range []string{"aaaaa", "bbbbb", "ccccc"} {
		if err := s.Put(ctx, fp, "income/salary", fintidy.OriginRule); err != nil {
			t.Fatal(err)
		}
	}
	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("All = %d verdicts, want 3", len(all))
	}
	if all["bbbbb"].Category != "income/salary" {
		t.Errorf("All[bbbbb] = %+v", all["bbbbb"])
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "verdicts.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open should create parent directories: %v", err)
	}
	s.Close()
}
