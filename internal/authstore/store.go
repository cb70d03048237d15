// Package authstore persists the StoredCredentials record described in
// spec §3/§4.2: a small schema-validated JSON file written atomically with
// owner-only permissions.
package authstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	currentVersion = 1

	tokenPrefix  = "xoxc-"
	cookiePrefix = "xoxd-"

	SourceInitial      = "initial"
	SourceAutoRefresh  = "auto-refresh"
	SourceManualRefresh = "manual-refresh"
)

// StorageError wraps every load/save failure per spec §4.2.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("STORAGE_ERROR: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Credentials is the xoxc/xoxd pair plus the workspace they belong to.
type Credentials struct {
	Token     string `json:"token"`
	Cookie    string `json:"cookie"`
	Workspace string `json:"workspace"`
}

// Metadata records when and how the credentials were last refreshed.
type Metadata struct {
	LastRefreshed string `json:"lastRefreshed"`
	RefreshCount  int    `json:"refreshCount"`
	Source        string `json:"source"`
}

// StoredCredentials is the full persisted record, version-tagged per §3.
type StoredCredentials struct {
	Version     int         `json:"version"`
	Credentials Credentials `json:"credentials"`
	Metadata    Metadata    `json:"metadata"`
}

// Validate enforces the invariants of spec §3. Any violation is reported
// with a message identifying the offending field.
func (s StoredCredentials) Validate() error {
	if s.Version != currentVersion {
		return fmt.Errorf("unsupported schema version %d, expected %d", s.Version, currentVersion)
	}
	if !strings.HasPrefix(s.Credentials.Token, tokenPrefix) {
		return fmt.Errorf("credentials.token must start with %q", tokenPrefix)
	}
	if !strings.HasPrefix(s.Credentials.Cookie, cookiePrefix) {
		return fmt.Errorf("credentials.cookie must start with %q", cookiePrefix)
	}
	if s.Credentials.Workspace == "" {
		return fmt.Errorf("credentials.workspace must be non-empty")
	}
	if _, err := time.Parse(time.RFC3339, s.Metadata.LastRefreshed); err != nil {
		return fmt.Errorf("metadata.lastRefreshed is not a parseable RFC3339 instant: %w", err)
	}
	if s.Metadata.RefreshCount < 0 {
		return fmt.Errorf("metadata.refreshCount must be non-negative")
	}
	switch s.Metadata.Source {
	case SourceInitial, SourceAutoRefresh, SourceManualRefresh:
	default:
		return fmt.Errorf("metadata.source %q is not one of initial/auto-refresh/manual-refresh", s.Metadata.Source)
	}
	return nil
}

// Store is a CredentialStore bound to a single file path.
type Store struct {
	Path string
}

func New(path string) *Store {
	return &Store{Path: path}
}

// Exists reports whether the credentials file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Load reads and validates the stored credentials.
func (s *Store) Load() (StoredCredentials, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return StoredCredentials{}, storageErr("load", err)
	}

	var sc StoredCredentials
	if err := json.Unmarshal(data, &sc); err != nil {
		return StoredCredentials{}, storageErr("load", fmt.Errorf("malformed JSON: %w", err))
	}

	if err := sc.Validate(); err != nil {
		return StoredCredentials{}, storageErr("load", err)
	}

	return sc, nil
}

// Save validates then atomically writes the credentials: write to a
// pid-scoped temp file, chmod 0600, rename onto the target, and re-chmod
// after rename to cover a pre-existing target with looser permissions.
func (s *Store) Save(sc StoredCredentials) error {
	if err := sc.Validate(); err != nil {
		return storageErr("save", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return storageErr("save", err)
	}

	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return storageErr("save", err)
	}

	tmpPath := fmt.Sprintf("%s.tmp.%d", s.Path, os.Getpid())

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return storageErr("save", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return storageErr("save", err)
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		os.Remove(tmpPath)
		return storageErr("save", err)
	}

	if err := os.Chmod(s.Path, 0600); err != nil {
		return storageErr("save", err)
	}

	return nil
}

// CreateInitial builds and persists the first StoredCredentials record,
// sourced from bootstrap-time environment values (spec §3 lifecycle).
func (s *Store) CreateInitial(token, cookie, workspace string) (StoredCredentials, error) {
	sc := StoredCredentials{
		Version: currentVersion,
		Credentials: Credentials{
			Token:     token,
			Cookie:    cookie,
			Workspace: workspace,
		},
		Metadata: Metadata{
			LastRefreshed: time.Now().UTC().Format(time.RFC3339),
			RefreshCount:  0,
			Source:        SourceInitial,
		},
	}

	if err := s.Save(sc); err != nil {
		return StoredCredentials{}, err
	}

	return sc, nil
}
