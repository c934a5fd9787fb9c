package pipeline

import (
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/dataprep"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

// Schema describes the columns a run reads from a dataset.
type Schema struct {
	Features []string
	Target   string
}

// Columns lists the raw dataset columns behind Features and Target.
// The derived subject_encoded feature reads the subject column.
func (s Schema) Columns() []string {
	seen := map[string]bool{}
	var out []string
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, f := range s.Features {
		if f == dataprep.SubjectEncoded {
			f = session.ColSubject
		}
		add(f)
	}
	add(s.Target)
	return out
}

// Inputs lists the raw columns behind Features only.
func (s Schema) Inputs() []string {
	return Schema{Features: s.Features}.Columns()
}

// Check reports the first column missing from f.
func (s Schema) Check(f *data.Frame) error {
	for _, c := range s.Columns() {
		if !f.Has(c) {
			return &data.ColumnError{Column: c, Err: data.ErrColumnNotFound}
		}
	}
	return nil
}
