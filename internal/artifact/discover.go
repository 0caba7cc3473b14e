package artifact

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var audioExtensions = map[string]struct{}{
	".flac": {},
	".mp3":  {},
	".m4a":  {},
	".wav":  {},
}

var coverNames = []string{"cover.jpg", "cover.png"}

// IsAudioPath reports whether the path carries a recognized audio extension.
func IsAudioPath(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Discover walks root recursively and returns the first audio file in sorted
// path order, plus a same-directory cover image when one exists. A nil audio
// result means the attempt produced nothing usable.
func Discover(root string) (*Artifact, *Artifact, error) {
	var candidates []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if IsAudioPath(path) {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(candidates) == 0 {
		return nil, nil, nil
	}
	sort.Strings(candidates)

	audioPath := candidates[0]
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, nil, err
	}
	audio := &Artifact{Path: audioPath, Kind: KindAudio, SizeBytes: info.Size()}

	dir := filepath.Dir(audioPath)
	for _, name := range coverNames {
		coverPath := filepath.Join(dir, name)
		coverInfo, err := os.Stat(coverPath)
		if err != nil {
			continue
		}
		cover := &Artifact{Path: coverPath, Kind: KindCover, SizeBytes: coverInfo.Size()}
		return audio, cover, nil
	}
	return audio, nil, nil
}
