package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tutorchat/internal/intent"
	"tutorchat/internal/models"
)

var classifyLesson string

type decisionView struct {
	Intent   string `json:"intent" yaml:"intent"`
	Rule     string `json:"rule" yaml:"rule"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Question string `json:"question,omitempty" yaml:"question,omitempty"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify <message>",
	Short: "Show which chat branch a message would take",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var doc *models.LessonDocument
		if classifyLesson != "" {
			d, err := loadLessonFile(classifyLesson, lessonID)
			if err != nil {
				return err
			}
			doc = &d
		}
		d := intent.Classify(strings.Join(args, " "), doc)
		v := decisionView{Intent: string(d.Intent), Rule: d.Rule, Email: d.Email, Username: d.Username}
		if d.QAPair != nil {
			v.Question = d.QAPair.Question
		}
		return render(cmd.OutOrStdout(), v, func() string {
			out := v.Intent
			switch {
			case v.Email != "":
				out += fmt.Sprintf(" (email %s)", v.Email)
			case v.Username != "":
				out += fmt.Sprintf(" (username %s)", v.Username)
			case v.Question != "":
				out += fmt.Sprintf(" (question %q)", v.Question)
			}
			return out
		})
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyLesson, "lesson", "", "Lesson PDF or text file providing lesson context")
	classifyCmd.Flags().StringVar(&lessonID, "id", "", "Lesson id for the lesson file")
	rootCmd.AddCommand(classifyCmd)
}
