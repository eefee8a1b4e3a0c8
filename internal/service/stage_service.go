package service

import (
	"fmt"
	"sort"

	"github.com/reelmint/api/internal/model"
	"github.com/reelmint/api/internal/state"
)

// StageService is the read-only view over the workflow state: it selects a
// stage's partition and derives summary statistics for display. It never
// mutates anything.
type StageService struct {
	store *state.Store
}

func NewStageService(store *state.Store) *StageService {
	return &StageService{store: store}
}

// GetStage returns the partition contents and summary for a stage. Unknown
// stage ids and a never-initialized store both produce well-formed empty
// responses; the only error out of here is a corrupt state document.
func (s *StageService) GetStage(stageID int) (*model.StageData, error) {
	stage := model.Stage(stageID)
	partition, ok := model.StagePartitions[stage]
	if !ok {
		return &model.StageData{
			Data: map[string]map[string]any{},
			Summary: map[string]any{
				"message": fmt.Sprintf("no data tracked for stage %d", stageID),
			},
		}, nil
	}

	entries, err := s.store.GetPartition(partition)
	if err != nil {
		return nil, err
	}

	return &model.StageData{
		Data:    map[string]map[string]any(entries),
		Summary: summarize(stage, entries),
	}, nil
}

func summarize(stage model.Stage, entries state.Partition) map[string]any {
	switch stage {
	case model.StagePlanning:
		return map[string]any{
			"totalCampaigns":    len(entries),
			"scriptedCampaigns": countStatus(entries, "scripted"),
		}
	case model.StageVideoGeneration:
		return map[string]any{
			"totalVideos":     len(entries),
			"completedVideos": countStatus(entries, string(model.JobStatusCompleted)),
		}
	case model.StagePublishing:
		return map[string]any{
			"totalPublished": len(entries),
			"platforms":      distinctPlatforms(entries),
		}
	}
	return map[string]any{}
}

func countStatus(entries state.Partition, status string) int {
	n := 0
	for _, entry := range entries {
		if entry["status"] == status {
			n++
		}
	}
	return n
}

// distinctPlatforms collects the sorted set of target platforms observed
// across published entries.
func distinctPlatforms(entries state.Partition) []string {
	seen := map[string]struct{}{}
	for _, entry := range entries {
		if platform, ok := entry["platform"].(string); ok && platform != "" {
			seen[platform] = struct{}{}
		}
	}
	platforms := make([]string, 0, len(seen))
	for platform := range seen {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	return platforms
}
