package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("card.mustache", []byte("{{name}}"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("card.mustache")
	if !exists {
		t.Error("Expected template to exist after Add")
	}
	if latestID != id1 {
		t.Errorf("Expected latest ID to be %d, got %d", id1, latestID)
	}

	// Re-adding the same path creates a fresh version with a new ID.
	id2 := fs.Add("card.mustache", []byte("{{title}}"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists = fs.GetLatest("card.mustache")
	if !exists || latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d (exists=%v)", id2, latestID, exists)
	}

	// Both versions stay addressable by ID.
	if got := string(fs.Get(id1).Content); got != "{{name}}" {
		t.Errorf("First version content = %q", got)
	}
	if got := string(fs.Get(id2).Content); got != "{{title}}" {
		t.Errorf("Second version content = %q", got)
	}

	if fs.Len() != 2 {
		t.Errorf("Expected 2 stored templates, got %d", fs.Len())
	}
}

func TestFileSetGetByPath(t *testing.T) {
	fs := NewFileSet()
	fs.Add("a/b.mustache", []byte("x"), 0)

	f, ok := fs.GetByPath("a/b.mustache")
	if !ok {
		t.Fatal("Expected GetByPath to find the template")
	}
	if f.Path != "a/b.mustache" {
		t.Errorf("Path = %q", f.Path)
	}

	if _, ok := fs.GetByPath("missing.mustache"); ok {
		t.Error("Expected GetByPath to miss an unknown path")
	}
}

func TestFileSetAddVirtualSetsFlag(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("<stdin>", []byte("hi"))
	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag on virtual templates")
	}
}

func TestFileSetLoadNormalizes(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "crlf.mustache")
	raw := []byte("\xEF\xBB\xBFline1\r\nline2\r\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	f := fs.Get(id)
	if got := string(f.Content); got != "line1\nline2\n" {
		t.Errorf("Normalized content = %q", got)
	}
	if f.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag")
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag")
	}
}

func TestFileSetLoadMissing(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "absent.mustache")); err == nil {
		t.Error("Expected an error loading a missing template")
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("pos.mustache", []byte("ab\ncd\nef"), 0)

	start, end := fs.Resolve(Span{File: id, Start: 3, End: 7})
	if start.Line != 2 || start.Col != 1 {
		t.Errorf("start = %d:%d, want 2:1", start.Line, start.Col)
	}
	if end.Line != 3 || end.Col != 2 {
		t.Errorf("end = %d:%d, want 3:2", end.Line, end.Col)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("lines.mustache", []byte("first\nsecond\nthird"), 0)
	f := fs.Get(id)

	tests := []struct {
		lineNum uint32
		want    string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.lineNum); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.lineNum, got, tt.want)
		}
	}
}
