package metrics

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffStats counts the line edits between two texts.
type DiffStats struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Changed int `json:"changed"`
}

// Unchanged reports whether the texts were identical line for line.
func (d DiffStats) Unchanged() bool {
	return d.Added == 0 && d.Removed == 0 && d.Changed == 0
}

// Diff returns line-level edit counts from before to after. A deletion
// directly followed by an insertion counts as changed lines, up to the
// smaller of the two runs.
func Diff(before, after string) DiffStats {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var st DiffStats
	removedPending := 0
	for _, edit := range diffs {
		switch edit.Type {
		case diffmatchpatch.DiffEqual:
			st.Removed += removedPending
			removedPending = 0
		case diffmatchpatch.DiffInsert:
			delta := CountLines(edit.Text)
			if removedPending > delta {
				st.Changed += delta
				st.Removed += removedPending - delta
			} else {
				st.Changed += removedPending
				st.Added += delta - removedPending
			}
			removedPending = 0
		case diffmatchpatch.DiffDelete:
			removedPending = CountLines(edit.Text)
		}
	}
	st.Removed += removedPending
	return st
}
