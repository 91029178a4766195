package tokens

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/spotbridge/internal/shared"
)

func TestStore(t *testing.T) {
	logger := shared.NewLogger(nil)

	t.Run("Round Trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		store := NewStore(path, logger)

		cred := Credential{AccessToken: "access", RefreshToken: "refresh"}
		if err := store.Save(cred); err != nil {
			t.Fatalf("expected save to succeed, got %v", err)
		}

		loaded := store.Load()
		if loaded == nil {
			t.Fatal("expected credential to load")
		}
		if *loaded != cred {
			t.Errorf("expected %+v, got %+v", cred, *loaded)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "nope.json"), logger)

		if cred := store.Load(); cred != nil {
			t.Errorf("expected absent credential, got %+v", cred)
		}
	})

	t.Run("Corrupt File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
			t.Fatalf("failed to write corrupt file: %v", err)
		}

		store := NewStore(path, logger)
		if cred := store.Load(); cred != nil {
			t.Errorf("expected absent credential for corrupt file, got %+v", cred)
		}
	})

	t.Run("Missing Fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		if err := os.WriteFile(path, []byte(`{"accessToken":"only-access"}`), 0600); err != nil {
			t.Fatalf("failed to write partial file: %v", err)
		}

		store := NewStore(path, logger)
		if cred := store.Load(); cred != nil {
			t.Errorf("expected absent credential for partial file, got %+v", cred)
		}
	})

	t.Run("Save Fails Soft", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "missing-dir", "tokens.json"), logger)

		err := store.Save(Credential{AccessToken: "a", RefreshToken: "r"})
		if err == nil {
			t.Error("expected error for unwritable path")
		}
	})

	t.Run("Skips Incomplete Credential", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		store := NewStore(path, logger)

		if err := store.Save(Credential{AccessToken: "only-access"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("expected no file to be written for incomplete credential")
		}
	})
}
