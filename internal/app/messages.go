package app

import "github.com/ashutoshmjain/avim/internal/clip"

// IngestStatusMsg carries a progress line from the ingestion task.
type IngestStatusMsg struct {
	Text string
}

// IngestDoneMsg carries the finished clip list and the audio duration.
type IngestDoneMsg struct {
	Clips     []clip.Clip
	Duration  float64
	FromCache bool
}

// IngestFailedMsg is sent when ingestion aborts.
type IngestFailedMsg struct {
	Err error
}

// ingestClosedMsg is delivered once the ingestion channel is drained.
type ingestClosedMsg struct{}
