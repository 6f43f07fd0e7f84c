package diag

import "fortasr/internal/source"

// Label attaches a message to one or more (file, span) pairs. A primary
// label marks the location the diagnostic is "about"; secondary labels add
// context (e.g. "previous declaration here").
type Label struct {
	Primary bool
	Message string
	Spans   []source.Span
}

// PrimaryLabel is a convenience constructor for a single-span primary label.
func PrimaryLabel(sp source.Span, msg string) Label {
	return Label{Primary: true, Message: msg, Spans: []source.Span{sp}}
}

// SecondaryLabel is a convenience constructor for a single-span secondary label.
func SecondaryLabel(sp source.Span, msg string) Label {
	return Label{Primary: false, Message: msg, Spans: []source.Span{sp}}
}

// Diagnostic is one user-visible message, per spec §7: a level, a stage, a
// message, and zero-or-more labels. Kind records the internal propagation
// regime that produced it and is not itself rendered.
type Diagnostic struct {
	Level   Level
	Stage   Stage
	Kind    Kind
	Message string
	Labels  []Label
}

// Primary returns the span of the first primary label, or the zero Span if
// there is none.
func (d Diagnostic) Primary() source.Span {
	for _, l := range d.Labels {
		if l.Primary && len(l.Spans) > 0 {
			return l.Spans[0]
		}
	}
	return source.Span{}
}

func (d Diagnostic) WithLabel(l Label) Diagnostic {
	d.Labels = append(d.Labels, l)
	return d
}
