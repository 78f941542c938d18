package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestScratch_CreateAndClose(t *testing.T) {
	s, err := NewScratch()
	if err != nil {
		t.Fatalf("NewScratch failed: %v", err)
	}

	info, err := os.Stat(s.Dir())
	if err != nil || !info.IsDir() {
		t.Fatalf("scratch directory not usable: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := os.Stat(s.Dir()); !os.IsNotExist(err) {
		t.Error("scratch directory should be removed after Close")
	}
}

func TestScratch_CloseTwice(t *testing.T) {
	s, err := NewScratch()
	if err != nil {
		t.Fatalf("NewScratch failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestScratch_Export(t *testing.T) {
	s, err := NewScratch()
	if err != nil {
		t.Fatalf("NewScratch failed: %v", err)
	}
	defer s.Close()

	if err := os.MkdirAll(filepath.Join(s.Dir(), "sub"), 0755); err != nil {
		t.Fatalf("preparing scratch contents: %v", err)
	}
	touch(t, filepath.Join(s.Dir(), LogFileName))
	touch(t, filepath.Join(s.Dir(), "sub", "outliers.shp"))

	dest := filepath.Join(t.TempDir(), "in_depth", "GGOutlier Check")
	if err := s.Export(dest); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	for _, rel := range []string{LogFileName, filepath.Join("sub", "outliers.shp")} {
		if _, err := os.Stat(filepath.Join(dest, rel)); err != nil {
			t.Errorf("expected exported file %s: %v", rel, err)
		}
	}
}

func TestScratch_ExportReplacesPrevious(t *testing.T) {
	s, err := NewScratch()
	if err != nil {
		t.Fatalf("NewScratch failed: %v", err)
	}
	defer s.Close()
	touch(t, filepath.Join(s.Dir(), LogFileName))

	dest := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dest, "stale.txt"))

	if err := s.Export(dest); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "stale.txt")); !os.IsNotExist(err) {
		t.Error("previous export contents should be replaced")
	}
}

func TestScratch_ExportAfterClose(t *testing.T) {
	s, err := NewScratch()
	if err != nil {
		t.Fatalf("NewScratch failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	err = s.Export(filepath.Join(t.TempDir(), "out"))
	var exportErr *ExportError
	if !errors.As(err, &exportErr) {
		t.Errorf("expected *ExportError, got %v", err)
	}
}
