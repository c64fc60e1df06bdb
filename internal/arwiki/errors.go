package arwiki

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind categorizes a core error.
type Kind string

const (
	// KindNetworkUnavailable indicates a ledger or contract-state call failed entirely.
	KindNetworkUnavailable Kind = "NETWORK_UNAVAILABLE"

	// KindLanguageDenied indicates the requested language is absent or inactive.
	KindLanguageDenied Kind = "LANGUAGE_DENIED"

	// KindIndexContentMismatch indicates a content transaction whose slug is not
	// in the index fetched during the same query.
	KindIndexContentMismatch Kind = "INDEX_CONTENT_MISMATCH"

	// KindSubmissionFailure indicates signing or submitting a transaction failed.
	KindSubmissionFailure Kind = "SUBMISSION_FAILURE"

	// KindInvalidInput indicates configuration or caller input was rejected.
	KindInvalidInput Kind = "INVALID_INPUT"
)

// Error is a classified failure with enough context for a UI to render it.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Op names the operation that failed, e.g. "query.ListApprovedPages".
	Op string

	// Message is a human-readable description.
	Message string

	// Fields carries identifying context (slug, language, tx id...).
	Fields map[string]string

	// Err is the underlying collaborator error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Op != "" {
		b.WriteString(" ")
		b.WriteString(e.Op)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%s", k, e.Fields[k])
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// NetworkUnavailable wraps a failed collaborator call.
// Errors that are already classified are returned unchanged.
func NetworkUnavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{
		Kind:    KindNetworkUnavailable,
		Op:      op,
		Message: "ledger or contract state unavailable",
		Err:     err,
	}
}

// LanguageDenied reports an absent or inactive language code.
func LanguageDenied(code string) *Error {
	return &Error{
		Kind:    KindLanguageDenied,
		Op:      "bootstrap.ValidateLanguage",
		Message: "language not supported",
		Fields:  map[string]string{"language": code},
	}
}

// IndexContentMismatch reports a content transaction with no matching index entry.
func IndexContentMismatch(slug, txID, language string) *Error {
	return &Error{
		Kind:    KindIndexContentMismatch,
		Op:      "query.Merge",
		Message: "content transaction slug is not present in the page index",
		Fields: map[string]string{
			"slug":     slug,
			"tx_id":    txID,
			"language": language,
		},
	}
}

// SubmissionFailure reports a failed mutation with the payload's identifying fields.
func SubmissionFailure(op string, fields map[string]string, err error) *Error {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindSubmissionFailure {
		return e
	}
	return &Error{
		Kind:    KindSubmissionFailure,
		Op:      op,
		Message: "transaction submission failed",
		Fields:  fields,
		Err:     err,
	}
}

// InvalidInput reports rejected configuration or caller input.
func InvalidInput(op, message string) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Op:      op,
		Message: message,
	}
}
