package photomark

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// ImageURLs holds the provider's size variants. Only Regular is loaded.
type ImageURLs struct {
	Raw     string `json:"raw" toml:"raw"`
	Full    string `json:"full" toml:"full"`
	Regular string `json:"regular" toml:"regular"`
	Small   string `json:"small" toml:"small"`
	Thumb   string `json:"thumb" toml:"thumb"`
}

// ImageUser is the photographer credit.
type ImageUser struct {
	Name     string `json:"name" toml:"name"`
	Username string `json:"username" toml:"username"`
}

// ImageRecord is one search result from the stock-photo provider.
type ImageRecord struct {
	ID             string    `json:"id" toml:"id"`
	URLs           ImageURLs `json:"urls" toml:"urls"`
	AltDescription *string   `json:"alt_description" toml:"alt_description,omitempty"`
	Description    *string   `json:"description" toml:"description,omitempty"`
	User           ImageUser `json:"user" toml:"user"`
	Width          int       `json:"width" toml:"width"`
	Height         int       `json:"height" toml:"height"`
}

// SearchResponse is a page of search results.
type SearchResponse struct {
	Results    []ImageRecord `json:"results"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// SearchError is the search proxy's error body.
type SearchError struct {
	Err string `json:"error"`
}

func (e SearchError) Error() string { return e.Err }

// SelectionStore persists the last selected image across restarts.
type SelectionStore interface {
	Load() (*ImageRecord, error)
	Save(rec *ImageRecord) error
	Clear() error
}

// AppState is the explicit application state shared by the browse view and
// the editor: the currently selected image. Safe for concurrent use.
type AppState struct {
	mu       sync.RWMutex
	selected *ImageRecord
	store    SelectionStore
}

// NewAppState returns state backed by store, which may be nil.
func NewAppState(store SelectionStore) *AppState {
	return &AppState{store: store}
}

// Restore loads the persisted selection. A missing file is not an error.
func (s *AppState) Restore() error {
	if s.store == nil {
		return nil
	}
	rec, err := s.store.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.selected = rec
	s.mu.Unlock()
	return nil
}

// Select records rec as the selected image and persists it.
func (s *AppState) Select(rec ImageRecord) error {
	s.mu.Lock()
	s.selected = &rec
	s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	return s.store.Save(&rec)
}

// SelectURL selects a bare URL with no provider metadata.
func (s *AppState) SelectURL(u string) error {
	return s.Select(ImageRecord{URLs: ImageURLs{Regular: u}})
}

// Selected returns a copy of the selection, or nil.
func (s *AppState) Selected() *ImageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	rec := *s.selected
	return &rec
}

// SelectedURL returns the selection's regular URL, or "".
func (s *AppState) SelectedURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return ""
	}
	return s.selected.URLs.Regular
}

// Clear drops the selection and its persisted copy.
func (s *AppState) Clear() error {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	return s.store.Clear()
}

const (
	appDirName    = "photomark"
	selectionFile = "selection.toml"
)

// DefaultSelectionPath returns <user config dir>/photomark/selection.toml,
// falling back to ~/.config when the config dir is unknown.
func DefaultSelectionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := homedir.Dir()
		if herr != nil {
			return "", fmt.Errorf("photomark: locate config dir: %w", errors.Join(err, herr))
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appDirName, selectionFile), nil
}

// FileSelectionStore keeps the selection in a TOML file.
type FileSelectionStore struct {
	Path string
	now  func() time.Time
}

// NewFileSelectionStore returns a store at path. A leading ~ is expanded.
func NewFileSelectionStore(path string) (*FileSelectionStore, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("photomark: selection path: %w", err)
	}
	return &FileSelectionStore{Path: p, now: time.Now}, nil
}

type selectionDoc struct {
	SavedAt       time.Time    `toml:"saved_at"`
	SelectedImage *ImageRecord `toml:"selected_image"`
}

// Load implements SelectionStore. A missing file yields nil, nil.
func (f *FileSelectionStore) Load() (*ImageRecord, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("photomark: read selection: %w", err)
	}
	var doc selectionDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("photomark: parse selection %s: %w", f.Path, err)
	}
	return doc.SelectedImage, nil
}

// Save implements SelectionStore.
func (f *FileSelectionStore) Save(rec *ImageRecord) error {
	now := time.Now
	if f.now != nil {
		now = f.now
	}
	data, err := toml.Marshal(selectionDoc{SavedAt: now().UTC(), SelectedImage: rec})
	if err != nil {
		return fmt.Errorf("photomark: encode selection: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("photomark: save selection: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o644); err != nil {
		return fmt.Errorf("photomark: save selection: %w", err)
	}
	return nil
}

// Clear implements SelectionStore.
func (f *FileSelectionStore) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("photomark: clear selection: %w", err)
	}
	return nil
}
