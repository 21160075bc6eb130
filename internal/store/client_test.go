package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeCredentials(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write credentials fixture: %v", err)
	}
	return path
}

func TestReadCredentialsFile(t *testing.T) {
	path := writeCredentials(t, `[default]
aws_access_key_id = AKIAEXAMPLE
aws_secret_access_key = wJalrXUtnFEMIexample
`)

	keyID, secret, err := readCredentialsFile(path)
	if err != nil {
		t.Fatalf("readCredentialsFile: %v", err)
	}
	if keyID != "AKIAEXAMPLE" {
		t.Errorf("expected key ID AKIAEXAMPLE, got %s", keyID)
	}
	if secret != "wJalrXUtnFEMIexample" {
		t.Errorf("expected secret, got %s", secret)
	}
}

func TestReadCredentialsFileMissingKey(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no key id", "aws_secret_access_key = s\n"},
		{"no secret", "aws_access_key_id = k\n"},
		{"empty", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeCredentials(t, tc.content)
			_, _, err := readCredentialsFile(path)
			if !errors.Is(err, ErrNoCredentials) {
				t.Errorf("expected ErrNoCredentials, got %v", err)
			}
		})
	}
}

func TestReadCredentialsFileNotFound(t *testing.T) {
	_, _, err := readCredentialsFile(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
