package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func backends(t *testing.T) map[string]Storage {
	t.Helper()
	f, err := NewFile(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	return map[string]Storage{
		"file":   f,
		"memory": NewMemory(),
	}
}

func TestGetMissingKey(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := s.Get("tasks")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if ok || v != nil {
				t.Errorf("Get on missing key = (%q, %v), want (nil, false)", v, ok)
			}
		})
	}
}

func TestSetOverwrites(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set("tasks", []byte(`[1,2,3]`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set("tasks", []byte(`[]`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			v, ok, err := s.Get("tasks")
			if err != nil || !ok {
				t.Fatalf("Get = (%v, %v)", ok, err)
			}
			if string(v) != `[]` {
				t.Errorf("Get = %q, want %q", v, `[]`)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Update("tasks", func(v []byte, ok bool) ([]byte, error) {
				if ok || len(v) != 0 {
					t.Errorf("Update on missing key saw (%q, %v)", v, ok)
				}
				return []byte("a"), nil
			})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			err = s.Update("tasks", func(v []byte, ok bool) ([]byte, error) {
				if !ok || string(v) != "a" {
					t.Errorf("Update saw (%q, %v), want (a, true)", v, ok)
				}
				return append(v, 'b'), nil
			})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if v, _, _ := s.Get("tasks"); string(v) != "ab" {
				t.Errorf("Get = %q, want %q", v, "ab")
			}
		})
	}
}

func TestUpdateErrorKeepsValue(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set("tasks", []byte("keep")); err != nil {
				t.Fatal(err)
			}
			boom := errors.New("boom")
			err := s.Update("tasks", func([]byte, bool) ([]byte, error) { return []byte("lost"), boom })
			if !errors.Is(err, boom) {
				t.Errorf("Update error = %v, want %v", err, boom)
			}
			if v, _, _ := s.Get("tasks"); string(v) != "keep" {
				t.Errorf("Get = %q after failed Update", v)
			}
		})
	}
}

func TestFileUpdatesFromTwoHandles(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewFile(dir)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	const n = 20
	for i := range n {
		s := a
		if i%2 == 1 {
			s = b
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Update("count", func(v []byte, _ bool) ([]byte, error) {
				return append(v, 'x'), nil
			}); err != nil {
				t.Errorf("Update: %v", err)
			}
		}()
	}
	wg.Wait()

	v, _, _ := a.Get("count")
	if len(v) != n {
		t.Errorf("concurrent updates kept %d of %d writes", len(v), n)
	}
}

func TestInvalidKeys(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", ".", "..", "a/b", `a\b`, "spaced key"} {
				if err := s.Set(key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Set(%q) error = %v, want ErrInvalidKey", key, err)
				}
				if err := s.Update(key, func(v []byte, _ bool) ([]byte, error) { return v, nil }); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Update(%q) error = %v, want ErrInvalidKey", key, err)
				}
				if _, _, err := s.Get(key); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Get(%q) error = %v, want ErrInvalidKey", key, err)
				}
			}
		})
	}
}

func TestFileLayout(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := f.Set("tasks", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	if err != nil {
		t.Fatalf("reading backing file: %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("backing file = %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	buf := []byte("abc")
	if err := m.Set("k", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'z'

	v, _, _ := m.Get("k")
	if string(v) != "abc" {
		t.Errorf("stored value aliased caller buffer: %q", v)
	}
}
