package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName("resume.pdf")
	if err != nil || got != "resume.pdf" {
		t.Fatalf("expected plain name back, got %q err=%v", got, err)
	}

	got, err = SanitizeFileName("dir/resume.pdf")
	if err != nil || got != "dir_resume.pdf" {
		t.Fatalf("expected separators replaced, got %q err=%v", got, err)
	}

	got, err = SanitizeFileName(`dir\resume.pdf`)
	if err != nil || got != "dir_resume.pdf" {
		t.Fatalf("expected backslash replaced, got %q err=%v", got, err)
	}
}

func TestSanitizeFileNameRejectsTraversal(t *testing.T) {
	for _, name := range []string{"../escape.pdf", "a/../b.pdf", "..", "", "   "} {
		if _, err := SanitizeFileName(name); err == nil {
			t.Fatalf("name %q: expected error", name)
		}
	}
}
