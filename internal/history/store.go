package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"fatcat-backend/internal/models"
)

// Storage persists a conversation between sessions.
type Storage interface {
	Load() ([]models.Turn, error)
	Save(turns []models.Turn) error
}

// FileStore keeps the serialized history in a single JSON file. Load fails
// open: a missing or corrupt file yields an empty history, never an error,
// so a bad disk state can not block the conversation.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() ([]models.Turn, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil
	}
	var turns []models.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, nil
	}
	return turns, nil
}

func (s *FileStore) Save(turns []models.Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}
