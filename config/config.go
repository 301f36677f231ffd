package config

var Version string

const (
	// PlaylistName is the playlist file a transcode job appends to.
	PlaylistName = "index.m3u8"
	// SegmentPattern names produced segments: seg000.ts, seg001.ts, ...
	SegmentPattern = "seg%03d.ts"
)
