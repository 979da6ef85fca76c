package intent

import (
	"testing"

	"tutorchat/internal/models"

	"github.com/stretchr/testify/require"
)

func lessonWithQA() *models.LessonDocument {
	return &models.LessonDocument{
		LessonID: "1",
		Title:    "Lesson 1: Deep Learning",
		HasPDF:   true,
		QAPairs: []models.QAPair{
			{Question: "What is Deep Learning?", Answer: "A subset of ML."},
			{Question: "How does backpropagation work?", Answer: "Gradients flow backwards."},
		},
	}
}

func TestClassifyBranches(t *testing.T) {
	lesson := lessonWithQA()
	cases := []struct {
		name   string
		msg    string
		lesson *models.LessonDocument
		want   Intent
	}{
		{"possessive email", "What is John's email?", lesson, UserInfo},
		{"email token alone", "sara@uni.edu", nil, UserInfo},
		{"tell me about", "tell me about sara", lesson, UserInfo},
		{"summary with lesson", "Can you summarize this lesson?", lesson, Summary},
		{"summary without lesson", "Can you summarize this lesson?", nil, General},
		{"qa substring", "backpropagation", lesson, QAMatch},
		{"qa case insensitive", "  WHAT IS DEEP learning  ", lesson, QAMatch},
		{"general", "Explain backpropagation", lesson, General},
		{"stop word candidate", "info about them", lesson, General},
		{"blank", "   ", lesson, General},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.msg, tc.lesson).Intent)
		})
	}
}

func TestClassifyCapturesDetails(t *testing.T) {
	d := Classify("what is the email of dana@x.io", nil)
	require.Equal(t, "dana@x.io", d.Email)
	require.Equal(t, "user_info", d.Rule)

	d = Classify("show me info kim", nil)
	require.Equal(t, UserInfo, d.Intent)
	require.Equal(t, "kim", d.Username)

	d = Classify("how does backpropagation", lessonWithQA())
	require.Equal(t, QAMatch, d.Intent)
	require.Equal(t, "How does backpropagation work?", d.QAPair.Question)
}

// The message must sit inside the stored question; the reverse is not a match.
func TestQAMatchDirection(t *testing.T) {
	d := Classify("How does backpropagation work? Please explain in detail", lessonWithQA())
	require.Equal(t, General, d.Intent)
}

// Keyword overlap with lesson questions is resolved in favour of user_info.
func TestUserInfoPrecedesSummaryAndQA(t *testing.T) {
	lesson := lessonWithQA()
	lesson.QAPairs = append(lesson.QAPairs, models.QAPair{Question: "Give an overview about Lee", Answer: "x"})
	require.Equal(t, UserInfo, Classify("overview about Lee", lesson).Intent)
}

// "my" is outside the stop set, so it is still taken as a username candidate.
func TestPossessivePronounIsNotFiltered(t *testing.T) {
	d := Classify("what is my email", nil)
	require.Equal(t, UserInfo, d.Intent)
	require.Equal(t, "my", d.Username)
}
