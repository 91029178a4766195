// package tokens persists the Spotify access/refresh token pair between runs.
//
// The store is deliberately forgiving: a missing or corrupt token file only
// means the bridge falls back to the code grant flow, so Load never fails hard.
package tokens

import (
	"encoding/json"
	"os"

	"github.com/charmbracelet/log"
)

// Credential is the access/refresh token pair authorizing remote calls.
// A credential with either token missing is not usable for authenticated calls.
type Credential struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Usable reports whether both tokens are present.
func (c Credential) Usable() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// Store reads and writes the durable copy of the credential.
// The file is the source of truth only at cold start; afterwards the live
// credential in the auth session owns the state and the file trails it.
type Store struct {
	path   string
	logger *log.Logger
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string, logger *log.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the location of the token file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved credential, or nil when no usable credential exists.
// Missing file, malformed JSON, and missing fields all read as absent.
func (s *Store) Load() *Credential {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Debug("no saved tokens", "path", s.path, "error", err)
		return nil
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		s.logger.Debug("saved tokens are malformed, ignoring", "path", s.path, "error", err)
		return nil
	}

	if !cred.Usable() {
		s.logger.Debug("saved tokens are incomplete, ignoring", "path", s.path)
		return nil
	}

	return &cred
}

// Save writes the credential to disk. A failed save is logged and reported but
// must never crash the caller; the in-memory credential stays valid until the
// next restart.
func (s *Store) Save(cred Credential) error {
	if !cred.Usable() {
		s.logger.Debug("refusing to persist incomplete credential")
		return nil
	}

	data, err := json.Marshal(cred)
	if err != nil {
		s.logger.Warn("failed to encode tokens", "error", err)
		return err
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		s.logger.Warn("failed to persist tokens, re-authentication may be required after restart", "error", err)
		return err
	}

	return nil
}
