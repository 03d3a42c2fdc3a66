package storage

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault-io/docvault/pkg/ownerid"
)

func TestVersionPath(t *testing.T) {
	owner := ownerid.MustParse("0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b")

	p := VersionPath(owner, 3, "Report Final.pdf")
	assert.Equal(t, "documents/0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b/v3_Report Final.pdf", p)
}

func TestVersionPath_Truncation(t *testing.T) {
	owner := ownerid.MustParse("0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b")

	long := strings.Repeat("x", 400) + ".pdf"
	p := VersionPath(owner, 1, long)

	assert.Len(t, p, MaxPathLength)
	assert.True(t, strings.HasPrefix(p, "documents/0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b/v1_"),
		"truncation must preserve the prefix")
}

func TestVersionPath_TruncationKeepsValidUTF8(t *testing.T) {
	owner := ownerid.MustParse("0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b")

	// Multibyte runes straddling the length ceiling must not be split.
	long := strings.Repeat("é", 200) + ".pdf"
	p := VersionPath(owner, 1, long)

	assert.LessOrEqual(t, len(p), MaxPathLength)
	assert.True(t, utf8.ValidString(p), "truncation must cut on a rune boundary")
}

func TestTempPath(t *testing.T) {
	p := TempPath("upload.docx")
	require.True(t, strings.HasPrefix(p, "documents/temp/"))
	assert.True(t, strings.HasSuffix(p, "/upload.docx"))

	// Each temp path gets a fresh random segment.
	assert.NotEqual(t, p, TempPath("upload.docx"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "report.pdf", "report.pdf"},
		{"path separators replaced", "../../etc/passwd", ".._.._etc_passwd"},
		{"backslashes replaced", `..\..\boot.ini`, ".._.._boot.ini"},
		{"control characters dropped", "re\x00port\n.pdf", "report.pdf"},
		{"empty becomes unnamed", "", "unnamed"},
		{"whitespace only becomes unnamed", "   ", "unnamed"},
		{"dots only becomes unnamed", "..", "unnamed"},
		{"spaces preserved", "my report.pdf", "my report.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}
