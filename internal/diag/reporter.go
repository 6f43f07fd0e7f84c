package diag

// Reporter is the minimal contract a phase uses to emit diagnostics without
// depending on how they are collected or rendered.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter adapts a *Bag to Reporter.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter discards every diagnostic. Useful in tests that only care
// about the returned error, not the rendered text.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
