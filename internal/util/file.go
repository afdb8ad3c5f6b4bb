package util

import (
	"fmt"
	"regexp"
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9_\-\.]`)

// SanitizeFileName strips characters that are unsafe in object keys and
// limits the result to 100 characters.
func SanitizeFileName(name string) string {
	safe := unsafeFileNameChars.ReplaceAllString(name, "_")
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe
}

// GetProjectDocumentDirectoryPath builds the per-project folder documents are
// stored under, e.g. "documents/3_Demo_Project".
func GetProjectDocumentDirectoryPath(projectId, projectName string) string {
	return fmt.Sprintf("documents/%s", SanitizeFileName(fmt.Sprintf("%s_%s", projectId, projectName)))
}

// ToDocumentFileName returns a unique object name for an uploaded document,
// e.g. "Vq8cD3kfT2LKm_Contract.pdf".
func ToDocumentFileName(documentName string) (string, error) {
	suffix, err := GenerateNChar(13)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s.pdf", suffix, SanitizeFileName(documentName)), nil
}

// ToSignedDocumentFileName returns a unique object name for a stamped copy of
// a document, e.g. "signed_Vq8cD3kfT2LKm_Contract.pdf".
func ToSignedDocumentFileName(documentName string) (string, error) {
	name, err := ToDocumentFileName(documentName)
	if err != nil {
		return "", err
	}
	return "signed_" + name, nil
}
