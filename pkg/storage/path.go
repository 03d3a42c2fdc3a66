package storage

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/docvault-io/docvault/pkg/ownerid"
)

// MaxPathLength is the filesystem path ceiling. Paths longer than this are
// truncated from the filename's tail, preserving the prefix.
const MaxPathLength = 255

// VersionPath returns the storage path for a document version:
// documents/<owner-id>/v<version>_<sanitized-filename>.
func VersionPath(owner ownerid.ID, version int, filename string) string {
	p := fmt.Sprintf("documents/%s/v%d_%s", owner, version, SanitizeFilename(filename))
	return truncate(p)
}

// TempPath returns a temporary upload path used before a document
// identifier exists: documents/temp/<random-id>/<filename>.
func TempPath(filename string) string {
	p := fmt.Sprintf("documents/temp/%s/%s", uuid.New(), SanitizeFilename(filename))
	return truncate(p)
}

// SanitizeFilename strips path separators and control characters so a
// client-supplied name cannot escape its directory.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unnamed"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
		case r < 0x20 || r == 0x7f:
			// drop control characters
		default:
			b.WriteRune(r)
		}
	}

	out := b.String()
	// A name of only separators or dots would alias directory entries.
	if out == "" || strings.Trim(out, ".") == "" {
		return "unnamed"
	}
	return out
}

func truncate(p string) string {
	if len(p) <= MaxPathLength {
		return p
	}
	// Back off to a rune boundary so the cut never yields invalid UTF-8.
	cut := MaxPathLength
	for cut > 0 && !utf8.RuneStart(p[cut]) {
		cut--
	}
	return p[:cut]
}
