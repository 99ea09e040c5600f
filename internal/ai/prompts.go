package ai

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/focusflow/internal/model"
)

func recapPrompt(overdue, dueToday []model.Task) string {
	overdueList := bulletList(overdue, "OVERDUE", "None! Great job clearing everything.")
	todayList := bulletList(dueToday, "TODAY", "None scheduled yet.")

	return fmt.Sprintf(`Good morning! Here is the user's status:

Overdue Tasks (from yesterday or earlier):
%s

Tasks Scheduled for Today:
%s

Please generate a friendly, encouraging "Daily Morning Briefing".
1. Acknowledge if they cleared yesterday's tasks (celebrate it!).
2. Summarize the overdue tasks if any (gentle reminder).
3. Highlight today's focus.
4. Keep it concise, professional yet warm. Use emojis.`, overdueList, todayList)
}

func interpretPrompt(activity string) string {
	return fmt.Sprintf(`Analyze the following computer activity: %q.
Create a professional task title and a short description.
Suggest 2-3 logical "next steps" for this workflow as an array of strings.
Respond with a JSON object: {"title": string, "description": string, "nextSteps": [string]}.`, activity)
}

func bulletList(tasks []model.Task, tag, empty string) string {
	if len(tasks) == 0 {
		return empty
	}
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("- [%s] %s", tag, t.Title))
	}
	return strings.Join(lines, "\n")
}
