package question

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// CSVHeaders is the question-bank column contract. Import requires every
// name to be present; export writes them in exactly this order.
var CSVHeaders = []string{
	"title",
	"content",
	"category",
	"question_type",
	"difficulty",
	"options", // JSON object: {"A": "Option text", "B": "Option text"}
	"correct_answer",
	"explanation",
	"topic_tags", // comma separated tags
	"active",
}

// TemplateFilename is the download name for the import template.
const TemplateFilename = "questions_template.csv"

// ExportFilename returns the download name for a bank export.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("questions_export_%s.csv", t.Format("2006-01-02"))
}

// ValidationResult is the outcome of decoding a CSV import. Questions holds
// every row that parsed cleanly, in input order, even when sibling rows
// failed; Valid is true only when no row produced an error.
type ValidationResult struct {
	Valid     bool       `json:"valid"`
	Questions []Question `json:"questions,omitempty"`
	Errors    []string   `json:"errors,omitempty"`

	// Rows holds the 1-based source row (header counts as row 1) for each
	// entry in Questions, so imports can report per-row outcomes.
	Rows []int `json:"-"`
}

// TemplateData returns the two-row import template: the header row and one
// worked example.
func TemplateData() [][]string {
	example := []string{
		"Sample Multiple Choice Question",
		"What is the correct answer to this question?",
		CategoryReading,
		"multiple_choice",
		DifficultyMedium,
		`{"A": "First option", "B": "Second option", "C": "Third option", "D": "Fourth option"}`,
		"A",
		"This is an explanation of why A is correct",
		"grammar,vocabulary",
		"true",
	}
	return [][]string{CSVHeaders, example}
}

// EncodeQuestions converts questions to CSV rows, header first. Options are
// JSON-encoded preserving key order; nil explanation and tags become empty
// cells; active becomes the literal "true"/"false".
func EncodeQuestions(questions []Question) [][]string {
	rows := make([][]string, 0, len(questions)+1)
	rows = append(rows, CSVHeaders)
	for _, q := range questions {
		options, _ := json.Marshal(q.Options)
		explanation := ""
		if q.Explanation != nil {
			explanation = *q.Explanation
		}
		rows = append(rows, []string{
			q.Title,
			q.Content,
			q.Category,
			q.QuestionType,
			q.Difficulty,
			string(options),
			q.CorrectAnswer,
			explanation,
			strings.Join(q.TopicTags, ","),
			strconv.FormatBool(q.Active),
		})
	}
	return rows
}

// RenderCSV serializes rows as an RFC 4180 document. Fields containing
// delimiters, quotes or newlines are quote-escaped so that encode/decode
// round-trips losslessly.
func RenderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeQuestions parses a CSV import into partial questions. Structural
// failures (syntax errors, fewer than two rows, missing headers) short-
// circuit with no questions. Otherwise every data row is checked
// independently and errors accumulate; a bad row is skipped and its
// siblings still decode.
func DecodeQuestions(data []byte) ValidationResult {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // column counts are checked per row below

	var records [][]string
	var parseErrors []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				parseErrors = append(parseErrors, fmt.Sprintf("CSV parse error: %v at row %d", parseErr.Err, parseErr.Line))
				continue
			}
			parseErrors = append(parseErrors, fmt.Sprintf("CSV parse error: %v", err))
			break
		}
		records = append(records, record)
	}
	if len(parseErrors) > 0 {
		return ValidationResult{Valid: false, Errors: parseErrors}
	}

	if len(records) < 2 { // headers + at least one row
		return ValidationResult{
			Valid:  false,
			Errors: []string{"CSV file must contain headers and at least one data row"},
		}
	}

	header := records[0]
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	var missing []string
	for _, name := range CSVHeaders {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return ValidationResult{
			Valid:  false,
			Errors: []string{"Missing required headers: " + strings.Join(missing, ", ")},
		}
	}

	var (
		questions []Question
		rows      []int
		errs      []string
	)
	for i, record := range records[1:] {
		rowNum := i + 2 // 1-based, counting the header row

		if len(record) != len(header) {
			errs = append(errs, fmt.Sprintf("Row %d: Expected %d columns but found %d", rowNum, len(header), len(record)))
			continue
		}

		cell := func(name string) string { return record[columns[name]] }
		rowOK := true

		category := cell("category")
		if !ValidCategory(category) {
			errs = append(errs, fmt.Sprintf("Row %d: Invalid category %q. Must be one of: %s", rowNum, category, strings.Join(Categories, ", ")))
			rowOK = false
		}

		difficulty := cell("difficulty")
		if !ValidDifficulty(difficulty) {
			errs = append(errs, fmt.Sprintf("Row %d: Invalid difficulty %q. Must be one of: %s", rowNum, difficulty, strings.Join(Difficulties, ", ")))
			rowOK = false
		}

		var options OptionMap
		if err := json.Unmarshal([]byte(cell("options")), &options); err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: Invalid options format. Must be a valid JSON object", rowNum))
			rowOK = false
		}

		if !rowOK {
			continue
		}

		q := Question{
			Title:         cell("title"),
			Content:       cell("content"),
			Category:      category,
			QuestionType:  cell("question_type"),
			Difficulty:    difficulty,
			Options:       options,
			CorrectAnswer: cell("correct_answer"),
			TopicTags:     splitTags(cell("topic_tags")),
			// Permissive by contract: anything other than the literal
			// "true" imports as inactive, without an error.
			Active: cell("active") == "true",
		}
		if explanation := cell("explanation"); explanation != "" {
			q.Explanation = &explanation
		}

		questions = append(questions, q)
		rows = append(rows, rowNum)
	}

	return ValidationResult{
		Valid:     len(errs) == 0,
		Questions: questions,
		Rows:      rows,
		Errors:    errs,
	}
}

// splitTags turns a comma-joined cell into trimmed tags, dropping empty
// segments. An empty result stays nil.
func splitTags(cell string) []string {
	var tags []string
	for _, segment := range strings.Split(cell, ",") {
		if tag := strings.TrimSpace(segment); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
