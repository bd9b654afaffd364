package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"fatcat-backend/internal/models"
)

func TestWindowNeverExceedsCap(t *testing.T) {
	w := NewWindow(10)
	for i := 0; i < 50; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		w.Append(models.Turn{Role: role, Content: fmt.Sprintf("turn %d", i)})
		if w.Len() > 10 {
			t.Fatalf("Window exceeded cap after %d appends: %d", i+1, w.Len())
		}
	}

	turns := w.Turns()
	if len(turns) != 10 {
		t.Fatalf("Expected 10 retained turns, got %d", len(turns))
	}
	// Most recent entries, original order.
	for i, turn := range turns {
		expected := fmt.Sprintf("turn %d", 40+i)
		if turn.Content != expected {
			t.Errorf("Position %d: expected %q, got %q", i, expected, turn.Content)
		}
	}
}

func TestWindowSeedTruncates(t *testing.T) {
	w := NewWindow(2)
	w.Seed([]models.Turn{
		{Role: "user", Content: "1"},
		{Role: "assistant", Content: "2"},
		{Role: "user", Content: "3"},
	})
	turns := w.Turns()
	if len(turns) != 2 || turns[0].Content != "2" || turns[1].Content != "3" {
		t.Errorf("Expected newest two turns, got %+v", turns)
	}
}

func TestWindowTurnsReturnsCopy(t *testing.T) {
	w := NewWindow(5)
	w.Append(models.Turn{Role: "user", Content: "hi"})

	turns := w.Turns()
	turns[0].Content = "mutated"

	if w.Turns()[0].Content != "hi" {
		t.Error("Mutating the returned slice must not affect the window")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewFileStore(path)

	original := []models.Turn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "Meow! Hi there!"},
		{Role: "user", Content: "日付は？"},
	}
	if err := store.Save(original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != len(original) {
		t.Fatalf("Expected %d turns, got %d", len(original), len(loaded))
	}
	for i := range loaded {
		if loaded[i] != original[i] {
			t.Errorf("Turn %d: expected %+v, got %+v", i, original[i], loaded[i])
		}
	}
}

func TestFileStoreFailsOpen(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
		turns, err := store.Load()
		if err != nil || len(turns) != 0 {
			t.Errorf("Expected empty history without error, got %v, %v", turns, err)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		store := NewFileStore(path)
		turns, err := store.Load()
		if err != nil || len(turns) != 0 {
			t.Errorf("Expected empty history without error, got %v, %v", turns, err)
		}
	})
}
