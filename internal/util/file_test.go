package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Plain name untouched", "Contract.pdf", "Contract.pdf"},
		{"Spaces replaced", "Master Agreement", "Master_Agreement"},
		{"Path separators replaced", "../etc/passwd", ".._etc_passwd"},
		{"Unicode replaced", "acuerdo-año", "acuerdo-a_o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.in); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	long := strings.Repeat("a", 150)
	if got := SanitizeFileName(long); len(got) != 100 {
		t.Errorf("SanitizeFileName() length = %d, want 100", len(got))
	}
}

func TestGetProjectDocumentDirectoryPath(t *testing.T) {
	got := GetProjectDocumentDirectoryPath("3", "Demo Project")
	if got != "documents/3_Demo_Project" {
		t.Errorf("GetProjectDocumentDirectoryPath() = %q", got)
	}
}

func TestToDocumentFileName(t *testing.T) {
	got, err := ToDocumentFileName("Master Agreement")
	if err != nil {
		t.Fatalf("ToDocumentFileName() error = %v", err)
	}
	if !strings.HasSuffix(got, "_Master_Agreement.pdf") {
		t.Errorf("expected unique prefix and sanitized suffix, got %q", got)
	}

	signed, err := ToSignedDocumentFileName("Master Agreement")
	if err != nil {
		t.Fatalf("ToSignedDocumentFileName() error = %v", err)
	}
	if !strings.HasPrefix(signed, "signed_") {
		t.Errorf("expected signed_ prefix, got %q", signed)
	}
}
