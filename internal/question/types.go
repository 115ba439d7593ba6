package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category constants for readability.
const (
	CategoryListening = "listening"
	CategoryReading   = "reading"
	CategoryWriting   = "writing"
	CategorySpeaking  = "speaking"
)

// Difficulty constants.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Categories lists the allowed category values in display order.
var Categories = []string{CategoryListening, CategoryReading, CategoryWriting, CategorySpeaking}

// Difficulties lists the allowed difficulty values.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ValidCategory reports whether v is an allowed category.
func ValidCategory(v string) bool {
	for _, c := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidDifficulty reports whether v is an allowed difficulty.
func ValidDifficulty(v string) bool {
	for _, d := range Difficulties {
		if v == d {
			return true
		}
	}
	return false
}

// OptionPair is a single answer option: a short key ("A") and its text.
type OptionPair struct {
	Key  string
	Text string
}

// OptionMap holds a question's answer options keyed by letter, preserving
// insertion order. JSON round-trips as an object with keys in that order,
// which a plain Go map cannot guarantee.
type OptionMap []OptionPair

// Set appends the option, or replaces the text if the key already exists.
func (m *OptionMap) Set(key, text string) {
	for i, p := range *m {
		if p.Key == key {
			(*m)[i].Text = text
			return
		}
	}
	*m = append(*m, OptionPair{Key: key, Text: text})
}

// Get returns the option text for key.
func (m OptionMap) Get(key string) (string, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Text, true
		}
	}
	return "", false
}

// Keys returns the option keys in insertion order.
func (m OptionMap) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// MarshalJSON encodes the options as a JSON object, keys in insertion order.
func (m OptionMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		text, err := json.Marshal(p.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(text)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the map, preserving key order.
// Anything other than an object (array, scalar, null) is rejected.
func (m *OptionMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("options must be a JSON object")
	}

	out := OptionMap{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("options must be a JSON object")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			// Non-string value, keep its literal JSON text.
			text = string(raw)
		}
		out.Set(key, text)
	}
	*m = out
	return nil
}

// Question is a single test-bank item.
type Question struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Category      string     `json:"category"`
	QuestionType  string     `json:"question_type"`
	Difficulty    string     `json:"difficulty"`
	Options       OptionMap  `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   *string    `json:"explanation"`
	TopicTags     []string   `json:"topic_tags"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CreatedBy     *uuid.UUID `json:"created_by"`
}

// TopicTag labels questions by subject area. Questions reference tags by
// name only; deleting a tag does not touch existing questions.
type TopicTag struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
