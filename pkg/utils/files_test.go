package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "main.c"), []byte("int main() {}"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	src, err := ReadSource("src/../src/main.c")
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	wantDir, _ := filepath.Abs("src")
	if src.Dir != wantDir {
		t.Errorf("Dir = %q, want %q", src.Dir, wantDir)
	}
	if src.Path != filepath.Join(wantDir, "main.c") {
		t.Errorf("Path = %q", src.Path)
	}
	if src.Text != "int main() {}" {
		t.Errorf("Text = %q", src.Text)
	}

	_, err = ReadSource("missing.c")
	if err == nil || !strings.Contains(err.Error(), "failed to read source") {
		t.Errorf("ReadSource(missing.c) error = %v", err)
	}
}
