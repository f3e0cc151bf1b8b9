package models

// GenerateRequest is the body of a video generation request.
type GenerateRequest struct {
	Topic        string  `json:"topic" binding:"required,min=1,max=500"`
	Recipe       string  `json:"recipe"`
	Duration     float64 `json:"duration" binding:"omitempty,gt=0"`
	Resolution   string  `json:"resolution"`
	OutputFormat string  `json:"output_format"`
}

// GenerateResponse acknowledges an accepted generation request.
type GenerateResponse struct {
	JobID         string `json:"job_id"`
	Status        string `json:"status"`
	EstimatedTime int    `json:"estimated_time,omitempty"`
	Message       string `json:"message,omitempty"`
}

// StatusResponse reports the state of a generation job.
type StatusResponse struct {
	JobID      string  `json:"job_id"`
	Status     string  `json:"status"`
	Progress   float64 `json:"progress"`
	Message    string  `json:"message,omitempty"`
	OutputPath string  `json:"output_path,omitempty"`
	Error      string  `json:"error,omitempty"`
}
