package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDepcheckTargets(t *testing.T) {
	t.Run("arguments are lowercased package names", func(t *testing.T) {
		got, err := depcheckTargets([]string{"Requests", "aiohttp"})
		if err != nil {
			t.Fatalf("depcheckTargets failed: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"requests", "aiohttp"}) {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("single .txt argument read as requirements file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "requirements.txt")
		if err := os.WriteFile(path, []byte("requests==2.31.0\n# comment\nflask\n"), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := depcheckTargets([]string{path})
		if err != nil {
			t.Fatalf("depcheckTargets failed: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"requests", "flask"}) {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("missing requirements file is an error", func(t *testing.T) {
		if _, err := depcheckTargets([]string{filepath.Join(t.TempDir(), "absent.txt")}); err == nil {
			t.Fatal("expected error")
		}
	})
}
