package assembly

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// filenameSanitizer strips characters that are unsafe in filenames across
// platforms. Mirrors the replacement set used for display names elsewhere.
var filenameSanitizer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "-",
	"?", "", "\"", "", "<", "", ">", "", "|", "",
)

// CanonicalFilename derives the deterministic display filename
// "{artist} - {title} ({album}, {year}){ext}". Metadata strings are NFC
// normalized first so tag-derived and path-derived names compare
// byte-identically; identical inputs always produce identical output.
func CanonicalFilename(meta TrackMetadata, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := fmt.Sprintf("%s - %s (%s, %s)%s",
		field(meta.Artist, UnknownField),
		field(meta.Title, UnknownField),
		field(meta.Album, UnknownField),
		field(meta.Year, UnknownYear),
		strings.ToLower(ext),
	)
	name = norm.NFC.String(name)
	return strings.TrimSpace(filenameSanitizer.Replace(name))
}

func field(value, sentinel string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return sentinel
	}
	return value
}
