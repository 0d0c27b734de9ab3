package llm

import (
	"fmt"
	"strings"
)

// StoryPrompt builds the prompt for free-form story generation. Memories,
// when given, are offered as material to draw on.
func StoryPrompt(prompt string, memories []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short story based on the following prompt: %s", prompt)
	if len(memories) > 0 {
		b.WriteString("\n\nDraw on these memories where they fit:\n")
		writeBullets(&b, memories)
	}
	return b.String()
}

// PersonStoryPrompt asks for a gentle summary of who someone is, built only
// from the stored memories about them.
func PersonStoryPrompt(personName string, memories []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are helping someone living with memory loss remember a person in their life.
Write a short, warm story (under 200 words) about %s, speaking directly to the reader.
Use only the memories listed below. Do not invent new facts.

MEMORIES:
`, personName)
	writeBullets(&b, memories)
	return b.String()
}

// HighlightPrompt asks for an uplifting one- or two-sentence restatement of a
// single memory for the home page.
func HighlightPrompt(personName, relationship, memoryText string) string {
	return fmt.Sprintf(`Rephrase this memory as a short, uplifting highlight (one or two sentences) for someone living with memory loss.
Speak directly to the reader and mention who the memory is with.

PERSON: %s
RELATIONSHIP: %s
MEMORY: %s

Return only the highlight text.`, personName, relationship, memoryText)
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}
