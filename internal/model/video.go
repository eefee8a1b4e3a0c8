package model

// GenerateRequest is the body of a video generation submission. The payload is
// preserved verbatim on the job record for audit and replay.
type GenerateRequest struct {
	Topic   string `json:"topic" validate:"required"`
	StageID int    `json:"stageId" validate:"required"`
}

// GenerateResponse acknowledges an accepted submission.
type GenerateResponse struct {
	OK    bool   `json:"ok"`
	JobID string `json:"jobId"`
}
