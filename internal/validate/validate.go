// Package validate checks document-upload inputs before any storage work.
package validate

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cshls/claims-backend/internal/apperr"
)

// allowedExtensions are the file types accepted as claim documents.
var allowedExtensions = map[string]bool{
	"pdf": true, "jpg": true, "jpeg": true, "png": true,
	"doc": true, "docx": true, "xls": true, "xlsx": true,
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Extension returns the lowercased extension of a filename without the dot.
func Extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// FileAllowed checks that the filename carries an accepted extension.
func FileAllowed(filename string) error {
	if !allowedExtensions[Extension(filename)] {
		return apperr.Validation("file type not allowed. allowed types: pdf, jpg, jpeg, png, doc, docx, xls, xlsx")
	}
	return nil
}

// DocumentFields checks the required metadata of an upload request.
func DocumentFields(claimID, documentType, documentName, filename string) error {
	if claimID == "" || documentType == "" || documentName == "" {
		return apperr.Validation("claim_id, document_type, and document_name are required")
	}
	if strings.TrimSpace(filename) == "" {
		return apperr.Validation("no file selected")
	}
	return FileAllowed(filename)
}

// SafeFilename strips any path components and unsafe characters from a
// client-supplied filename before it is stored as metadata.
func SafeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	return strings.Trim(base, "._")
}
