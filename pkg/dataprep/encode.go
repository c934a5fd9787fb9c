package dataprep

import (
	"errors"
	"fmt"
	"sort"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

// ErrUnknownLabel is returned when transforming a label the encoder was not fit on.
var ErrUnknownLabel = errors.New("dataprep: unknown label")

// LabelEncoder encodes categories as integers in sorted class order.
type LabelEncoder struct {
	Classes []string
}

// NewLabelEncoder returns an encoder fit on values.
func NewLabelEncoder(values []string) *LabelEncoder {
	e := &LabelEncoder{}
	e.Fit(values)
	return e
}

// Fit records the distinct values, sorted.
func (e *LabelEncoder) Fit(values []string) {
	unique := map[string]struct{}{}
	for _, v := range values {
		unique[v] = struct{}{}
	}
	e.Classes = make([]string, 0, len(unique))
	for v := range unique {
		e.Classes = append(e.Classes, v)
	}
	sort.Strings(e.Classes)
}

// Encode returns the code of a single label.
func (e *LabelEncoder) Encode(v string) (int, error) {
	i := sort.SearchStrings(e.Classes, v)
	if i < len(e.Classes) && e.Classes[i] == v {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownLabel, v)
}

// Transform encodes every value.
func (e *LabelEncoder) Transform(values []string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		c, err := e.Encode(v)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Decode is the inverse of Encode.
func (e *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("dataprep: code %d out of range", code)
	}
	return e.Classes[code], nil
}

// FocusOrdinal maps focus_classification labels onto distracted=0,
// semi-attentive=1, attentive=2.
func FocusOrdinal(labels []string) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		c, err := session.ParseCategory(l)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out[i] = c.Ordinal()
	}
	return out, nil
}
