package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tutorchat/internal/conversation"
	"tutorchat/internal/models"
)

var (
	assembleLesson  string
	assembleHistory []string
)

var assembleCmd = &cobra.Command{
	Use:   "assemble <message>",
	Short: "Show the ordered message list sent to the answering engine",
	Long: `assemble builds the engine input from legacy stored history rows.

History rows are given newest first, as the store returns them; assistant
rows carry the "AI: " marker:
  lessonctl assemble "what next?" --history "AI: hi" --history "hello"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var lc *conversation.LessonContext
		if assembleLesson != "" {
			doc, err := loadLessonFile(assembleLesson, lessonID)
			if err != nil {
				return err
			}
			lc = conversation.ContextFor(&doc)
		}
		msgs := conversation.AssembleStored(assembleHistory, lc, strings.Join(args, " "))
		return render(cmd.OutOrStdout(), msgs, func() string { return formatMessages(msgs) })
	},
}

func formatMessages(msgs []models.ChatMessage) string {
	var b strings.Builder
	for i, m := range msgs {
		content := m.Content
		if m.Role == models.RoleSystem {
			content = strings.SplitN(content, "\n", 2)[0] + " ..."
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, m.Role, content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func init() {
	assembleCmd.Flags().StringVar(&assembleLesson, "lesson", "", "Lesson PDF or text file providing lesson context")
	assembleCmd.Flags().StringVar(&lessonID, "id", "", "Lesson id for the lesson file")
	assembleCmd.Flags().StringArrayVar(&assembleHistory, "history", nil, "Stored history row, newest first (repeatable)")
	rootCmd.AddCommand(assembleCmd)
}
