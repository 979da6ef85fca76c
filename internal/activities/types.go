package activities

import "tutorchat/internal/models"

type ResolveLessonSourceInput struct {
	LessonID string `json:"lesson_id"`
}

// ResolveLessonSourceOutput is the serializable form of lesson.Resolution.
type ResolveLessonSourceOutput struct {
	LessonID   string   `json:"lesson_id"`
	Root       string   `json:"root"`
	Path       string   `json:"path,omitempty"`
	Strategy   string   `json:"strategy,omitempty"`
	Outcome    string   `json:"outcome"`
	StoreError string   `json:"store_error,omitempty"`
	Attempts   []string `json:"attempts"`
}

type ExtractLessonInput struct {
	LessonID string `json:"lesson_id"`
	Path     string `json:"path"`
}

type ExtractLessonOutput struct {
	Document models.LessonDocument `json:"document"`
	SHA256   string                `json:"sha256"`
}

type WriteLessonArtifactInput struct {
	Document      models.LessonDocument `json:"document"`
	Strategy      string                `json:"strategy,omitempty"`
	SHA256        string                `json:"sha256,omitempty"`
	ProcessingLog map[string]any        `json:"processing_log,omitempty"`
}

type WriteLessonArtifactOutput struct {
	Dir string `json:"dir"`
}
