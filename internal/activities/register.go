package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ResolveLessonSourceActivity)
	w.RegisterActivity(a.ExtractLessonActivity)
	w.RegisterActivity(a.WriteLessonArtifactActivity)
}
