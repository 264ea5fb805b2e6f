package analysis

import (
	"fmt"
	"strings"

	"github.com/spacesedan/mindmirror/internal/models"
	"github.com/spacesedan/mindmirror/internal/sources"
)

const summaryInstructions = `You summarize private journal entries for the person who wrote them.
Write two or three sentences in the second person. Keep the writer's own
framing, do not diagnose and do not give advice. Respond with the summary only.`

const concernsInstructions = `You identify the core concerns in a journal entry.
Return short, lower-case category names such as work, relationships, family,
financial, health, sleep, academic, anxiety, loneliness or self_esteem.
Return an empty list when the entry raises no concern.`

const tipsInstructions = `You write supportive, practical growth tips for the author of a journal entry.
Each tip is one concrete sentence. Do not diagnose and do not mention therapy
unless the entry asks for it. Return at most %d tips.`

var (
	concernsSchema = sources.SchemaFor[models.GeneratedConcerns]("journal_concerns",
		"Core concern categories raised in a journal entry")
	tipsSchema = sources.SchemaFor[models.GeneratedTips]("growth_tips",
		"Growth tips for the author of a journal entry")
)

func tipsPrompt(text string, dominant, concerns []string) string {
	var b strings.Builder
	if len(dominant) > 0 {
		fmt.Fprintf(&b, "Dominant emotions: %s\n", strings.Join(dominant, ", "))
	}
	if len(concerns) > 0 {
		fmt.Fprintf(&b, "Concerns: %s\n", strings.Join(concerns, ", "))
	}
	b.WriteString("\nJournal entry:\n")
	b.WriteString(text)
	return b.String()
}
