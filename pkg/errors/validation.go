package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputName validates the basename of the rendered video path.
// It must be a plain filename: no directories, no control characters and
// no hidden-file prefix, so the resolved outPath always stays inside the
// working directory.
func ValidateOutputName(name string) error {
	if name == "" {
		return New(ErrCodeConfiguration, "output name cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeConfiguration, "output name too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeConfiguration, "output name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeConfiguration, "output name cannot contain path separators: %q", name)
	}

	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return New(ErrCodeConfiguration, "output name cannot be a hidden file: %q", name)
	}

	return nil
}

// ValidateExtension validates a file extension used to match image files.
// Extensions must start with a dot and contain no path separators or
// glob metacharacters.
func ValidateExtension(ext string) error {
	if len(ext) < 2 || ext[0] != '.' {
		return New(ErrCodeConfiguration, "extension must start with '.': %q", ext)
	}

	if strings.ContainsAny(ext[1:], "./\\*?[]") {
		return New(ErrCodeConfiguration, "extension contains invalid characters: %q", ext)
	}

	return nil
}
