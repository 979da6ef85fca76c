package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tutorchat/internal/config"
	"tutorchat/internal/lesson"
	"tutorchat/internal/storage"
)

var useDB bool

type attemptView struct {
	Strategy string `json:"strategy" yaml:"strategy"`
	Outcome  string `json:"outcome" yaml:"outcome"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

type resolutionView struct {
	LessonID string        `json:"lesson_id" yaml:"lesson_id"`
	Root     string        `json:"root" yaml:"root"`
	Outcome  string        `json:"outcome" yaml:"outcome"`
	Strategy string        `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Path     string        `json:"path,omitempty" yaml:"path,omitempty"`
	Hint     string        `json:"hint,omitempty" yaml:"hint,omitempty"`
	Attempts []attemptView `json:"attempts" yaml:"attempts"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <lesson-id>",
	Short: "Locate the source PDF for a lesson id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		var store lesson.SourceStore
		if useDB {
			db, err := storage.NewDB(ctx, config.Load().PostgresURL)
			if err != nil {
				return err
			}
			defer db.Close()
			store = storage.NewLessonRepo(db)
		}
		r := lesson.NewResolver(downloadsRoot, store, cliLogger())
		res := r.Resolve(ctx, args[0])

		v := resolutionView{LessonID: args[0], Root: r.Root(), Outcome: res.Outcome.String(), Strategy: res.Strategy, Path: res.Path}
		for _, at := range res.Attempts {
			av := attemptView{Strategy: at.Strategy, Outcome: at.Outcome.String()}
			if at.Err != nil {
				av.Error = at.Err.Error()
			}
			v.Attempts = append(v.Attempts, av)
		}
		if week, day, ok := lesson.LegacyWeekDay(args[0]); ok {
			v.Hint = fmt.Sprintf("week %d, day %d", week, day)
		}
		return render(cmd.OutOrStdout(), v, func() string {
			if res.Outcome == lesson.Found {
				return fmt.Sprintf("%s (via %s)", res.Path, res.Strategy)
			}
			return strings.TrimSpace(lesson.NotFoundDocument(args[0], r.Root(), res).Content)
		})
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&useDB, "db", false, "Consult the stored path in Postgres first")
	rootCmd.AddCommand(resolveCmd)
}
