package prefs

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func exercise(t *testing.T, s Store) {
	t.Helper()

	if _, ok, err := s.Get("easycv-theme"); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v, err %v", ok, err)
	}
	if err := s.Set("easycv-theme", "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("easycv-theme", "light"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, ok, err := s.Get("easycv-theme")
	if err != nil || !ok || v != "light" {
		t.Errorf("Get = %q, %v, %v", v, ok, err)
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	s, err := OpenSQLite(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	exercise(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, _, err := s.Get("easycv-theme"); err == nil {
		t.Error("Get on closed store succeeded")
	}

	// values survive reopening
	s, err = OpenSQLite(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if v, ok, err := s.Get("easycv-theme"); err != nil || !ok || v != "light" {
		t.Errorf("Get after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestOpen(t *testing.T) {
	log := zaptest.NewLogger(t)

	s, err := Open("", "", log)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("default store is %T", s)
	}

	s, err = Open("SQLite", filepath.Join(t.TempDir(), "p.db"), log)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*SQLite); !ok {
		t.Errorf("sqlite store is %T", s)
	}

	if _, err := Open("redis", "", log); err == nil {
		t.Error("unknown kind accepted")
	}
	if _, err := Open("sqlite", "", log); err == nil {
		t.Error("sqlite without path accepted")
	}
}
