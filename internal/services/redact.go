package services

import (
	"regexp"
	"strings"

	"suggest-backend/internal/models"
)

const (
	historySampleSize      = 8
	historyPreviewMaxChars = 240
	draftPreviewMaxChar    = 120
)

var (
	emailPattern     = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	jwtPattern       = regexp.MustCompile(`\b[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\b`)
	openAIKeyPattern = regexp.MustCompile(`\bsk-[A-Za-z0-9]{16,}\b`)
	googleKeyPattern = regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{20,}\b`)
	awsKeyPattern    = regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)
	longTokenPattern = regexp.MustCompile(`\b[0-9A-Za-z_-]{40,}\b`)
	bearerPattern    = regexp.MustCompile(`(?i)Bearer\s+[0-9A-Za-z._-]+`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// Redact masks emails, JWT-like tokens, API keys and bearer credentials.
func Redact(input string) string {
	if input == "" {
		return input
	}

	out := emailPattern.ReplaceAllString(input, "[REDACTED_EMAIL]")
	out = jwtPattern.ReplaceAllString(out, "[REDACTED_TOKEN]")
	out = openAIKeyPattern.ReplaceAllString(out, "[REDACTED_KEY]")
	out = googleKeyPattern.ReplaceAllString(out, "[REDACTED_KEY]")
	out = awsKeyPattern.ReplaceAllString(out, "[REDACTED_KEY]")
	out = longTokenPattern.ReplaceAllString(out, "[REDACTED_KEY]")
	out = bearerPattern.ReplaceAllString(out, "Bearer [REDACTED]")
	return out
}

// CondenseText collapses whitespace and truncates to maxChars runes,
// ending in "..." when anything was cut.
func CondenseText(text string, maxChars int) string {
	normalized := strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	runes := []rune(normalized)
	if len(runes) <= maxChars {
		return normalized
	}
	keep := maxChars - 3
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + "..."
}

// CondenseHistory renders the most recent messages as "role: content" lines
// and condenses the result to maxChars.
func CondenseHistory(history []models.ChatMessage, maxChars int) string {
	if len(history) > historySampleSize {
		history = history[len(history)-historySampleSize:]
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, m.Role+": "+m.Content)
	}
	return CondenseText(strings.Join(lines, "\n"), maxChars)
}

// DraftPreview is the redacted, shortened draft used in log lines.
// Redaction runs before truncation.
func DraftPreview(req *models.SuggestRequest) string {
	return CondenseText(Redact(req.CurrentDraft), draftPreviewMaxChar)
}

// HistoryPreview is the redacted, condensed chat history used in log lines.
// Each message is redacted before the history is condensed.
func HistoryPreview(req *models.SuggestRequest) string {
	redacted := make([]models.ChatMessage, len(req.ChatHistory))
	for i, m := range req.ChatHistory {
		redacted[i] = models.ChatMessage{Role: m.Role, Content: Redact(m.Content)}
	}
	return CondenseHistory(redacted, historyPreviewMaxChars)
}
