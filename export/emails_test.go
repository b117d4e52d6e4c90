package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormatEmailList(t *testing.T) {
	got := FormatEmailList([]string{"a@x.com", "b@y.com"})
	want := "email = \"a@x.com\"\nemail = \"b@y.com\""
	if got != want {
		t.Fatalf("unexpected format: %q", got)
	}

	if FormatEmailList(nil) != "" {
		t.Fatalf("empty list must format to empty string")
	}
}

func TestSaveEmailListOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.txt")

	if err := SaveEmailList(path, []string{"old@x.com", "stale@x.com"}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := SaveEmailList(path, []string{"new@x.com"}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(content) != "email = \"new@x.com\"" {
		t.Fatalf("prior content must be overwritten, got %q", string(content))
	}
}
