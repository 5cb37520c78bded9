package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeStructure, "head %d not present in tree", 12),
			want: "INVALID_STRUCTURE: head 12 not present in tree",
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeInvalidInput, errors.New("boom"), "read input"),
			want: "INVALID_INPUT: read input: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeFormatGuess, "no content line found")
	if !Is(err, ErrCodeFormatGuess) {
		t.Error("Is() = false, want true for matching code")
	}
	if Is(err, ErrCodeStructure) {
		t.Error("Is() = true, want false for non-matching code")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !Is(wrapped, ErrCodeFormatGuess) {
		t.Error("Is() should unwrap error chains")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeUnknownFormat, "x")); got != ErrCodeUnknownFormat {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeUnknownFormat)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty for plain error", got)
	}
	if got := GetCode(NewFieldError(3, "FEATS", "CoNLL-U", "a=b|c")); got != ErrCodeInvalidField {
		t.Errorf("GetCode() = %q, want %q for FieldError", got, ErrCodeInvalidField)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "empty treebank")
	if got := UserMessage(err); got != "empty treebank" {
		t.Errorf("UserMessage() = %q, want message without code prefix", got)
	}
	plain := errors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage() = %q, want error string as-is", got)
	}
}

func TestFieldErrorReportsVerbatim(t *testing.T) {
	fe := NewFieldError(7, "HEAD", "CoNLL-X", "x7")
	msg := fe.Error()
	for _, want := range []string{"line 7", "HEAD", "CoNLL-X", `"x7"`} {
		if !strings.Contains(msg, want) {
			t.Errorf("FieldError message %q missing %q", msg, want)
		}
	}

	wrapped := fmt.Errorf("parse: %w", fe)
	if AsFieldError(wrapped) == nil {
		t.Error("AsFieldError should unwrap error chains")
	}
	if !Is(wrapped, ErrCodeInvalidField) {
		t.Error("Is(ErrCodeInvalidField) should match wrapped FieldError")
	}
}
