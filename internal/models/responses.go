package models

// PlayerRequest is the body of the player-management and onboard endpoints.
type PlayerRequest struct {
	Name string `json:"name"`
	Op   bool   `json:"op"`
}

// JobSubmitResponse is returned by every action endpoint: the job id to poll
// plus the status it had when the request returned.
type JobSubmitResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type JobListResponse struct {
	Jobs []Job `json:"jobs"`
}

type LogResponse struct {
	Lines []string `json:"lines"`
}

type WhitelistResponse struct {
	Names []string `json:"names"`
}

type LoginResponse struct {
	Status    string `json:"status"`
	CSRFToken string `json:"csrf_token"`
}
