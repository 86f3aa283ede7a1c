// Package message turns classifier output into the text shown to the user.
package message

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hearmony/backend/internal/model/emotion"
)

const (
	// ErrorText is shown when a prediction cannot be obtained.
	ErrorText = "❌ Error predicting emotion."

	// Undefined is how a missing emotion field is rendered.
	Undefined = "undefined"

	fallbackFormat = "🧠 Predicted Emotion: %s"
)

var table = map[emotion.Label]string{
	emotion.Happy:     "😄 Wohoo! Looks like you're feeling happy and cheerful!",
	emotion.Sad:       "😢 Oh no! You seem a bit sad. Hope things get better soon!",
	emotion.Angry:     "😠 Whoa! You sound a bit angry. Take a deep breath!",
	emotion.Calm:      "😌 You seem calm and relaxed. Keep enjoying the peace!",
	emotion.Fearful:   "😨 Sounds like you're a little scared. Stay brave!",
	emotion.Surprised: "😲 Ooh! That sounded surprising!",
	emotion.Disgust:   "🤢 Hmm… Something seems off. You sound disgusted!",
}

// Lookup returns the friendly message for a label.
func Lookup(label emotion.Label) (string, bool) {
	msg, ok := table[label]
	return msg, ok
}

// Table returns a copy of the label to message mapping.
func Table() map[emotion.Label]string {
	out := make(map[emotion.Label]string, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

// Fallback formats the message for labels without a table entry.
func Fallback(label string) string {
	return fmt.Sprintf(fallbackFormat, label)
}

// Render resolves a label to its message, falling back to the raw label.
func Render(label string) string {
	if msg, ok := Lookup(emotion.Label(label)); ok {
		return msg
	}
	return Fallback(label)
}

// Field is the raw `emotion` member of a prediction response.
// Present is false when the member is absent from the object.
type Field struct {
	Raw     json.RawMessage
	Present bool
}

// Text is the label text used for both lookup and fallback rendering.
// Strings are used verbatim, an absent field is "undefined", and any
// other JSON value is rendered as its compact encoding.
func (f Field) Text() string {
	raw := bytes.TrimSpace(f.Raw)
	if !f.Present || len(raw) == 0 {
		return Undefined
	}
	// Unmarshal treats null as a no-op for strings.
	if bytes.Equal(raw, []byte("null")) {
		return "null"
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

// RenderField renders the message for a response field.
func RenderField(f Field) string {
	return Render(f.Text())
}
