package persister

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cassettes.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cassettes.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("final OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='cassettes'",
	).Scan(&name)
	if err != nil {
		t.Errorf("cassettes table not found after idempotent opens: %v", err)
	}
}

func TestSQLite_WriteReadRoundTrip(t *testing.T) {
	s := makeTestSQLite(t)

	if err := s.Write("api/users", []byte("recorded_with: x\n")); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	content, ok, err := s.Read("api/users")
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if !ok {
		t.Fatal("Read() reported missing after write")
	}
	if string(content) != "recorded_with: x\n" {
		t.Errorf("Read() = %q, want %q", content, "recorded_with: x\n")
	}
}

func TestSQLite_ReadMissing(t *testing.T) {
	s := makeTestSQLite(t)

	_, ok, err := s.Read("absent")
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if ok {
		t.Error("Read() reported existing for a missing cassette")
	}
}

func TestSQLite_EmptyContentReadsAsMissing(t *testing.T) {
	s := makeTestSQLite(t)

	if err := s.Write("blank", []byte{}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	_, ok, err := s.Read("blank")
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if ok {
		t.Error("empty content should read as missing")
	}

	// Stat still reports existence.
	_, ok, err = s.Stat("blank")
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	if !ok {
		t.Error("Stat() should report existence for empty content")
	}
}

func TestSQLite_WriteReplaces(t *testing.T) {
	s := makeTestSQLite(t)

	if err := s.Write("episode", []byte("first")); err != nil {
		t.Fatalf("first Write() failed: %v", err)
	}
	if err := s.Write("episode", []byte("second")); err != nil {
		t.Fatalf("second Write() failed: %v", err)
	}

	content, ok, err := s.Read("episode")
	if err != nil || !ok {
		t.Fatalf("Read() failed: ok=%v err=%v", ok, err)
	}
	if string(content) != "second" {
		t.Errorf("Read() = %q, want %q", content, "second")
	}
}

func TestSQLite_StatReflectsUpdatedAt(t *testing.T) {
	s := makeTestSQLite(t)

	if err := s.Write("stale", []byte("content")); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	// Age the row two hours; Stat must surface the stored time so the
	// staleness re-record check can compare it against its interval.
	aged := time.Now().Add(-2 * time.Hour).Unix()
	if _, err := s.DB().Exec("UPDATE cassettes SET updated_at = ? WHERE name = ?", aged, "stale"); err != nil {
		t.Fatalf("failed to age row: %v", err)
	}

	mtime, ok, err := s.Stat("stale")
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	if !ok {
		t.Fatal("Stat() reported missing after write")
	}
	if got := mtime.Unix(); got != aged {
		t.Errorf("Stat() mtime = %d, want %d", got, aged)
	}
}

func TestSQLite_List(t *testing.T) {
	s := makeTestSQLite(t)

	names, err := s.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List() = %v, want empty", names)
	}

	for _, name := range []string{"zoo", "api/users", "api/orders"} {
		if err := s.Write(name, []byte("x")); err != nil {
			t.Fatalf("Write(%q) failed: %v", name, err)
		}
	}

	names, err = s.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	want := []string{"api/orders", "api/users", "zoo"}
	if len(names) != len(want) {
		t.Fatalf("List() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func makeTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "cassettes.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
