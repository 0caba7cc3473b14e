// Package ffprobe shells out to ffprobe and decodes its JSON report.
//
// The pipeline uses it to read embedded tags (artist, title, album, date)
// from a downloaded artifact and to check whether a cover image stream is
// already attached. Tag lookup is case-insensitive because containers
// disagree about key casing.
package ffprobe
