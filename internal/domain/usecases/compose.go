// Package usecases - compose.go builds the message list sent to the chat provider.
package usecases

import (
	"strings"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

const personaInstruction = "You are a helpful assistant. Answer the user's questions based on the provided document."

// Delimiters separating summary framing from verbatim source in the
// system message, so the provider can tell the two apart.
const (
	summaryBeginMarker = "--- BEGIN DOCUMENT SUMMARY ---"
	summaryEndMarker   = "--- END DOCUMENT SUMMARY ---"
	contentBeginMarker = "--- BEGIN DOCUMENT CONTENT ---"
	contentEndMarker   = "--- END DOCUMENT CONTENT ---"
)

// ComposeContext builds the ordered message list for one chat turn:
// exactly one system message, then the full conversation history, oldest
// first and unmodified. History truncation is out of scope here.
func ComposeContext(history []entities.ChatMessage, active *entities.DocumentRecord) []entities.ChatMessage {
	messages := make([]entities.ChatMessage, 0, len(history)+1)
	messages = append(messages, entities.ChatMessage{
		Role:    entities.RoleSystem,
		Content: systemContent(active),
	})
	messages = append(messages, history...)
	return messages
}

// systemContent renders the persona instruction plus, when a document is
// active, its summary (only if final) and full decoded content.
func systemContent(active *entities.DocumentRecord) string {
	if active == nil {
		return personaInstruction
	}

	var sb strings.Builder
	sb.WriteString(personaInstruction)
	sb.WriteString("\n\n")

	if active.HasFinalSummary() {
		sb.WriteString(summaryBeginMarker)
		sb.WriteString("\n")
		sb.WriteString(active.Summary)
		sb.WriteString("\n")
		sb.WriteString(summaryEndMarker)
		sb.WriteString("\n\n")
	}

	sb.WriteString(contentBeginMarker)
	sb.WriteString("\n")
	sb.WriteString(active.Content)
	sb.WriteString("\n")
	sb.WriteString(contentEndMarker)
	return sb.String()
}
