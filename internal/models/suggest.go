package models

import (
	"encoding/json"
	"math"
	"math/big"
)

const (
	DefaultSuggestionCount = 3
	DefaultLanguage        = "en"
	DefaultStyle           = "concise"
)

// ChatMessage is one turn of the conversation preceding the draft.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UIHint carries the client's optional generation preferences. Nil fields
// mean "not supplied"; use SuggestRequest.Hint for the resolved values.
type UIHint struct {
	N        *int    `json:"n,omitempty"`
	Language *string `json:"language,omitempty"`
	Style    *string `json:"style,omitempty"`
}

// FieldError reports a value that passed the schema but cannot be held by
// the Go type it decodes into. Field is a JSON pointer.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// UnmarshalJSON accepts any whole-number literal for n, including 3.0 and 1e2.
func (h *UIHint) UnmarshalJSON(data []byte) error {
	var raw struct {
		N        *json.Number `json:"n"`
		Language *string      `json:"language"`
		Style    *string      `json:"style"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	h.N = nil
	h.Language = raw.Language
	h.Style = raw.Style
	if raw.N == nil {
		return nil
	}

	n, err := wholeNumber(*raw.N)
	if err != nil {
		return err
	}
	h.N = &n
	return nil
}

func wholeNumber(num json.Number) (int, error) {
	r, ok := new(big.Rat).SetString(num.String())
	if !ok || !r.IsInt() {
		return 0, &FieldError{Field: "/ui_hint/n", Message: "expected integer, but got " + num.String()}
	}
	v := r.Num()
	if !v.IsInt64() || v.Int64() > math.MaxInt || v.Int64() < math.MinInt {
		return 0, &FieldError{Field: "/ui_hint/n", Message: "integer " + num.String() + " is out of range"}
	}
	return int(v.Int64()), nil
}

// ClientInfo is diagnostic metadata about the calling client.
type ClientInfo struct {
	SessionID  *string `json:"session_id"`
	AppVersion *string `json:"app_version"`
}

// ResolvedHint is a UIHint with every default applied.
type ResolvedHint struct {
	N        int
	Language string
	Style    string
}

// SuggestRequest is the payload accepted by POST /api/suggest-prompts.
type SuggestRequest struct {
	CurrentDraft string        `json:"current_draft"`
	ChatHistory  []ChatMessage `json:"chat_history"`
	UIHint       *UIHint       `json:"ui_hint,omitempty"`
	Client       *ClientInfo   `json:"client,omitempty"`

	hint ResolvedHint
}

// ApplyDefaults resolves optional fields in place. It is called once by the
// decoder so downstream code never has to null-check. An explicit null in a
// ui_hint field resolves to the default, not to "no value".
func (r *SuggestRequest) ApplyDefaults() {
	if r.ChatHistory == nil {
		r.ChatHistory = []ChatMessage{}
	}

	r.hint = ResolvedHint{
		N:        DefaultSuggestionCount,
		Language: DefaultLanguage,
		Style:    DefaultStyle,
	}
	if r.UIHint == nil {
		return
	}
	if r.UIHint.N != nil {
		r.hint.N = *r.UIHint.N
	}
	if r.UIHint.Language != nil {
		r.hint.Language = *r.UIHint.Language
	}
	if r.UIHint.Style != nil {
		r.hint.Style = *r.UIHint.Style
	}
}

// Hint returns the resolved UI hint.
func (r *SuggestRequest) Hint() ResolvedHint {
	return r.hint
}

// SessionID returns the client session id, or "anon" when none was sent.
func (r *SuggestRequest) SessionID() string {
	if r.Client == nil || r.Client.SessionID == nil || *r.Client.SessionID == "" {
		return "anon"
	}
	return *r.Client.SessionID
}

// Suggestion is a single proposed continuation of the draft.
type Suggestion struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
	Reason     *string  `json:"reason"`
}

// SuggestResponse is returned by POST /api/suggest-prompts.
type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// EmptySuggestResponse returns a response whose suggestions encode as [] rather than null.
func EmptySuggestResponse() *SuggestResponse {
	return &SuggestResponse{Suggestions: []Suggestion{}}
}
