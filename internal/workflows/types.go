package workflows

type LessonLoadInput struct {
	LessonID       string `json:"lesson_id"`
	WriteArtifacts bool   `json:"write_artifacts"`
}

type LessonLoadStatus struct {
	LessonID    string            `json:"lesson_id"`
	CurrentStep string            `json:"current_step"`
	Status      string            `json:"status"`
	Strategy    string            `json:"strategy,omitempty"`
	Path        string            `json:"path,omitempty"`
	FailReason  string            `json:"fail_reason,omitempty"`
	Steps       map[string]string `json:"steps"`
}
