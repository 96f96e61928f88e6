package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a run-level failure.
type Kind string

const (
	NoLinksFound        Kind = "no links found"
	SummarizationFailed Kind = "summarization failed"
)

var (
	// ErrNoLinksFound matches any *Error of kind NoLinksFound.
	ErrNoLinksFound = errors.New("no PDF links found")
	// ErrSummarizationFailed matches any *Error of kind SummarizationFailed.
	ErrSummarizationFailed = errors.New("summarization failed")
)

// Error aborts a run. Per-document failures never produce one; they are
// reported as notices instead.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNoLinksFound:
		return e.Kind == NoLinksFound
	case ErrSummarizationFailed:
		return e.Kind == SummarizationFailed
	}
	return false
}

// NoticeKind names the stage a notice was raised in.
type NoticeKind string

const (
	NoticePagination NoticeKind = "pagination"
	NoticeFetch      NoticeKind = "fetch"
	NoticeLink       NoticeKind = "link"
	NoticeExtract    NoticeKind = "extract"
	NoticeTruncated  NoticeKind = "truncated"
)

// Notice is a recoverable problem attributable to one resource.
type Notice struct {
	Kind    NoticeKind
	URL     string
	Message string
}

func (n Notice) String() string {
	if n.URL == "" {
		return fmt.Sprintf("%s: %s", n.Kind, n.Message)
	}
	return fmt.Sprintf("%s %s: %s", n.Kind, n.URL, n.Message)
}
