package artifact

import (
	"fmt"
	"os"
)

// Kind distinguishes the two artifact classes an attempt can produce.
type Kind int

const (
	KindAudio Kind = iota
	KindCover
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindCover:
		return "cover"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Artifact is a file produced during one cascade attempt. It is owned by the
// attempt that created it until released to the caller.
type Artifact struct {
	Path      string
	Kind      Kind
	SizeBytes int64
}

// Stat refreshes SizeBytes from the filesystem.
func (a *Artifact) Stat() error {
	info, err := os.Stat(a.Path)
	if err != nil {
		return err
	}
	a.SizeBytes = info.Size()
	return nil
}
