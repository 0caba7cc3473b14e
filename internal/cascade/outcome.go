package cascade

import (
	"fermata/internal/artifact"
	"fermata/internal/assembly"
)

// Status classifies how a cascade run ended.
type Status int

const (
	// StatusSuccess means a compliant artifact was produced and released.
	StatusSuccess Status = iota
	// StatusExhausted means every tier was tried without a deliverable
	// result. Nothing survives cleanup.
	StatusExhausted
	// StatusFatal means the run aborted on an error unrelated to tier
	// quality, such as a filesystem failure or cancellation.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusExhausted:
		return "exhausted"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the single result of a cascade run. On success, Audio is the
// one artifact released from the delete-set; its cover, when one was found,
// has been embedded into it and the source image cleaned up.
type Outcome struct {
	Status        Status
	Audio         *artifact.Artifact
	Metadata      assembly.TrackMetadata
	Filename      string
	TierLabel     string
	Transcoded    bool
	CoverEmbedded bool
	Err           error
}
