// Package ffmpeg wraps the ffmpeg CLI for the two container operations the
// pipeline needs: transcoding an oversized artifact down to a fixed-bitrate
// MP3, and remuxing a cover image into an audio file as an attached picture.
//
// Both operations copy any existing image stream instead of re-encoding it,
// and the embed writes to a temporary path that replaces the original only on
// success. No progress is parsed; the exit code is the whole contract.
package ffmpeg
