package uploads

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedImageExts is the extension whitelist for every image upload.
var allowedImageExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"webp": true,
	"gif":  true,
}

// AllowedImage reports whether filename carries a whitelisted image extension.
func AllowedImage(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return allowedImageExts[ext]
}

// SecureFilename strips path components and unsafe characters from a
// user-supplied filename. The result is never empty.
func SecureFilename(filename string) string {
	// Uploads from Windows clients may carry backslash-separated paths.
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}

	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}

	safe := strings.Trim(b.String(), "._-")
	if safe == "" {
		return "file"
	}
	return safe
}

// UniqueName prefixes a sanitized filename with a fresh random identifier.
// The combination is the only name ever used on disk, so concurrent uploads
// of equally named files cannot collide or overwrite each other.
func UniqueName(original string) string {
	prefix := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "_" + SecureFilename(original)
}
