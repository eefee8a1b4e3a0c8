package model

// Stage identifies a phase of the content pipeline. Only video generation
// accepts job submissions; the others exist as read-only data partitions.
type Stage int

const (
	StagePlanning        Stage = 3
	StageVideoGeneration Stage = 4
	StagePublishing      Stage = 5
)

// State store partition names, one per stage.
const (
	PartitionCampaigns = "campaigns"
	PartitionVideos    = "videos"
	PartitionPublished = "published"
)

// StagePartitions maps each known stage to its state store partition.
var StagePartitions = map[Stage]string{
	StagePlanning:        PartitionCampaigns,
	StageVideoGeneration: PartitionVideos,
	StagePublishing:      PartitionPublished,
}

// StageData is the read-only view of one stage: the raw partition contents
// plus derived summary statistics.
type StageData struct {
	Data    map[string]map[string]any `json:"data"`
	Summary map[string]any            `json:"summary"`
}
