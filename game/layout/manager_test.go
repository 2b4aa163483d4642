package layout

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeLayoutFile(t *testing.T, dir, name, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write layout file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		m, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if m == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		dir := t.TempDir()
		writeLayoutFile(t, dir, "rows.json", validLayout)
		if _, err := NewManager(filepath.Join(dir, "rows.json")); err == nil {
			t.Error("Expected error for a file path")
		}
	})
}

func TestManager_Get(t *testing.T) {
	dir := t.TempDir()
	writeLayoutFile(t, dir, "rows.json", validLayout)
	writeLayoutFile(t, dir, "broken.json", `{"name": "broken", "ships": []}`)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"by id", "rows", nil},
		{"with extension", "rows.json", nil},
		{"missing", "nope", ErrLayoutNotFound},
		{"invalid", "broken", ErrInvalidLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := m.Get(tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if l.Name != "rows" {
				t.Errorf("Expected layout rows, got %s", l.Name)
			}
		})
	}
}

func TestManager_Cache(t *testing.T) {
	dir := t.TempDir()
	writeLayoutFile(t, dir, "rows.json", validLayout)

	m, _ := NewManager(dir)
	first, err := m.Get("rows")
	if err != nil {
		t.Fatal(err)
	}

	os.Remove(filepath.Join(dir, "rows.json"))
	second, err := m.Get("rows")
	if err != nil {
		t.Fatalf("Cached layout should survive file removal: %v", err)
	}
	if first != second {
		t.Error("Expected the cached pointer")
	}

	m.Refresh()
	if _, err := m.Get("rows"); !errors.Is(err, ErrLayoutNotFound) {
		t.Errorf("Expected ErrLayoutNotFound after refresh, got %v", err)
	}
}

func TestManager_List(t *testing.T) {
	dir := t.TempDir()
	writeLayoutFile(t, dir, "rows.json", validLayout)
	writeLayoutFile(t, dir, "broken.json", `not json`)
	writeLayoutFile(t, dir, "notes.txt", "ignored")

	m, _ := NewManager(dir)
	infos, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("Expected 1 layout, got %d", len(infos))
	}
	if infos[0].LayoutID != "rows" || infos[0].Filename != "rows.json" {
		t.Errorf("Unexpected info %+v", infos[0])
	}
}

func TestManager_Save(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewManager(dir)

	l, err := Parse([]byte(validLayout))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Save("mine", l); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := Load(filepath.Join(dir, "mine.json")); err != nil {
		t.Errorf("Saved layout should load: %v", err)
	}

	bad := &Layout{Name: "bad"}
	if err := m.Save("bad", bad); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("Expected ErrInvalidLayout, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.json")); !os.IsNotExist(err) {
		t.Error("Invalid layout should not be written")
	}
}

func TestManager_ConcurrentGet(t *testing.T) {
	dir := t.TempDir()
	writeLayoutFile(t, dir, "rows.json", validLayout)
	m, _ := NewManager(dir)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Get("rows"); err != nil {
				t.Errorf("Get failed: %v", err)
			}
		}()
	}
	wg.Wait()
}
