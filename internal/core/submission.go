package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator"
)

const (
	msgMissingFields = "Please fill out all fields."
	msgInvalidAge    = "Please enter a valid age."

	maxStoryLength     = 4000
	maxInstagramLength = 30
)

// ValidationError carries the single message shown next to the form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a user-facing form error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RawSubmission holds the form fields exactly as posted.
type RawSubmission struct {
	Name       string `form:"name" json:"name"`
	Age        string `form:"age" json:"age"`
	Ambition   string `form:"ambition" json:"ambition"`
	TargetYear string `form:"targetYear" json:"targetYear"`
	Story      string `form:"story" json:"story"`
	Instagram  string `form:"instagram" json:"instagram"`
}

// Submission is a parsed, validated form.
type Submission struct {
	Name       string `validate:"required,max=80"`
	Age        int    `validate:"min=1,max=120"`
	Ambition   string `validate:"required,max=80"`
	TargetYear int
	Story      string
	Instagram  string
}

var submissionValidator = validator.New()

// ParseSubmission validates raw form input against the clock's current year.
// Failures are returned as *ValidationError.
func ParseSubmission(raw RawSubmission, now time.Time) (Submission, error) {
	name := strings.TrimSpace(raw.Name)
	ambition := strings.TrimSpace(raw.Ambition)
	ageText := strings.TrimSpace(raw.Age)
	yearText := strings.TrimSpace(raw.TargetYear)
	if name == "" || ageText == "" || ambition == "" || yearText == "" {
		return Submission{}, &ValidationError{Message: msgMissingFields}
	}

	age, err := strconv.Atoi(ageText)
	if err != nil {
		return Submission{}, &ValidationError{Message: msgInvalidAge}
	}

	submission := Submission{
		Name:      name,
		Age:       age,
		Ambition:  ambition,
		Story:     clamp(strings.TrimSpace(raw.Story), maxStoryLength),
		Instagram: clamp(NormalizeInstagram(raw.Instagram), maxInstagramLength),
	}
	if err := submissionValidator.Struct(submission); err != nil {
		return Submission{}, toValidationError(err)
	}

	year, err := strconv.Atoi(yearText)
	if err != nil || year <= now.Year() {
		return Submission{}, &ValidationError{
			Message: fmt.Sprintf("Please enter a target year after %d.", now.Year()),
		}
	}
	submission.TargetYear = year

	return submission, nil
}

// clamp cuts s to at most n runes. Optional fields are shortened, never rejected.
func clamp(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

func toValidationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return fmt.Errorf("failed to validate submission: %w", err)
	}
	fe := fieldErrors[0]
	switch {
	case fe.Field() == "Age":
		return &ValidationError{Message: msgInvalidAge}
	case fe.Tag() == "required":
		return &ValidationError{Message: msgMissingFields}
	case fe.Tag() == "max":
		return &ValidationError{
			Message: fmt.Sprintf("Please keep the %s under %s characters.", strings.ToLower(fe.Field()), fe.Param()),
		}
	}
	return &ValidationError{Message: fmt.Sprintf("Please check the %s field.", strings.ToLower(fe.Field()))}
}

// NewAmbition builds the record for a validated submission. The timestamp is
// used for both id and createdAt; an empty story is filled from a template.
func NewAmbition(submission Submission, timestamp int64, imageURL string, pick func(int) int) Ambition {
	story := submission.Story
	if story == "" {
		story = RandomStory(pick, submission.Name, submission.Age, submission.Ambition)
	}
	if imageURL == "" {
		imageURL = PlaceholderImageURL(timestamp)
	}
	return Ambition{
		ID:         timestamp,
		Name:       submission.Name,
		Age:        submission.Age,
		Ambition:   submission.Ambition,
		TargetYear: submission.TargetYear,
		ImageURL:   imageURL,
		Story:      story,
		Instagram:  submission.Instagram,
		CreatedAt:  timestamp,
	}
}
