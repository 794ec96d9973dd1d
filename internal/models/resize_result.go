package models

import "time"

type ResizeResult struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	SourcePath      string     `json:"source_path"`
	DestinationPath string     `json:"destination_path"`
	SourceSize      ResizeSize `json:"source_size"`
	Size            ResizeSize `json:"size"`
	Format          string     `json:"format,omitempty"`
	FileSize        int64      `json:"file_size,omitempty"`
	URL             string     `json:"url,omitempty"`
	ProcessedAt     time.Time  `json:"processed_at"`
}

const (
	ResultResized       = "resized"
	ResultSourceMissing = "source_missing"
)

// ResizeCompleted is the event published after a destination file was written.
type ResizeCompleted struct {
	Event  string        `json:"event"`
	Result *ResizeResult `json:"result"`
}

const EventResizeCompleted = "resize.completed"
