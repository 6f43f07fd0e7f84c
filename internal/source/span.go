package source

import "fmt"

// Span is a contiguous, half-open range of bytes within one source file.
// Diagnostics and ASR nodes alike carry a Span instead of a materialized
// line/column so that resolving to human-readable positions can stay lazy
// (only paid for when a diagnostic is actually rendered).
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

// Empty reports whether the span has zero length.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// Len returns the length of the span in bytes.
func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span that contains both s and other.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ExtendRight grows s up to (not including) the start of other.
func (s Span) ExtendRight(other Span) Span {
	if s.File != other.File {
		return s
	}
	if s.End < other.Start {
		return Span{File: s.File, Start: s.Start, End: other.Start}
	}
	return s
}

// ExtendLeft grows s back to (not including) the end of other.
func (s Span) ExtendLeft(other Span) Span {
	if s.File != other.File {
		return s
	}
	if s.Start > other.End {
		return Span{File: s.File, Start: other.End, End: s.End}
	}
	return s
}

// IsLeftThan reports whether s starts before other in the same file.
func (s Span) IsLeftThan(other Span) bool {
	return s.File == other.File && s.Start < other.Start
}

// IsRightThan reports whether s ends after other in the same file.
func (s Span) IsRightThan(other Span) bool {
	return s.File == other.File && s.End > other.End
}

// ShiftLeft moves the span left by n bytes. If n is greater than Start,
// s is returned unchanged.
func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{File: s.File, Start: s.Start - n, End: s.End - n}
}

// ShiftRight moves the span right by n bytes. If n is greater than the
// span's length, s is returned unchanged.
func (s Span) ShiftRight(n uint32) Span {
	if n > s.End-s.Start {
		return s
	}
	return Span{File: s.File, Start: s.Start + n, End: s.End + n}
}

// ZeroideToStart collapses the span to a zero-length point at its start.
// Used for insertion-style edits.
func (s Span) ZeroideToStart() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

// ZeroideToEnd collapses the span to a zero-length point at its end.
func (s Span) ZeroideToEnd() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}
