package ffprobe

import (
	"encoding/json"
	"testing"
)

const sampleReport = `{
  "streams": [
    {"index": 0, "codec_name": "flac", "codec_type": "audio", "tags": {"ENCODER": "reference"}},
    {"index": 1, "codec_name": "mjpeg", "codec_type": "video", "disposition": {"attached_pic": 1}}
  ],
  "format": {
    "filename": "03. Track Z.flac",
    "nb_streams": 2,
    "format_name": "flac",
    "tags": {"ARTIST": "Artist X", "TITLE": "Track Z", "ALBUM": "Album Y", "DATE": "2021"}
  }
}`

func decode(t *testing.T, payload string) Result {
	t.Helper()
	var result Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return result
}

func TestTagIsCaseInsensitive(t *testing.T) {
	result := decode(t, sampleReport)
	if got := result.Tag("artist"); got != "Artist X" {
		t.Fatalf("artist = %q", got)
	}
	if got := result.Tag("TITLE"); got != "Track Z" {
		t.Fatalf("title = %q", got)
	}
	if got := result.Tag("date", "year"); got != "2021" {
		t.Fatalf("date = %q", got)
	}
}

func TestTagFallsBackToAudioStream(t *testing.T) {
	payload := `{
	  "streams": [{"index": 0, "codec_type": "audio", "tags": {"title": "Stream Title"}}],
	  "format": {"tags": {}}
	}`
	result := decode(t, payload)
	if got := result.Tag("title"); got != "Stream Title" {
		t.Fatalf("title = %q", got)
	}
}

func TestTagMissingReturnsEmpty(t *testing.T) {
	result := decode(t, `{"streams": [], "format": {}}`)
	if got := result.Tag("artist"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestHasAttachedPicture(t *testing.T) {
	if !decode(t, sampleReport).HasAttachedPicture() {
		t.Fatal("sample carries an attached picture")
	}
	bare := `{"streams": [{"index": 0, "codec_type": "audio"}], "format": {}}`
	if decode(t, bare).HasAttachedPicture() {
		t.Fatal("audio-only container should report no attached picture")
	}
}
