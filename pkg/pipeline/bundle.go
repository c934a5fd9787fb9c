package pipeline

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/data"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/dataprep"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
)

// Bundle is a trained model together with everything needed to rebuild its inputs.
type Bundle struct {
	Kind     model.Kind
	Model    model.Model
	Subjects *dataprep.LabelEncoder
	Features []string
	Target   string
}

// Matrix builds the model input for f using the bundle's features and
// encoder. Missing input cells are imputed on a copy of f.
func (b *Bundle) Matrix(f *data.Frame) ([][]float64, error) {
	inputs := Schema{Features: b.Features}.Inputs()
	missing, err := dataprep.HasMissing(f, inputs)
	if err != nil {
		return nil, err
	}
	if missing {
		f = f.Clone()
		if _, err := dataprep.ImputeColumns(f, inputs); err != nil {
			return nil, err
		}
	}
	return dataprep.Matrix(f, b.Features, b.Subjects)
}

func (b *Bundle) Predict(X [][]float64) []float64 {
	return b.Model.Predict(X)
}

type bundleFile struct {
	Kind     model.Kind
	Model    []byte
	Subjects []string
	Features []string
	Target   string
}

// EncodeBundle writes b to w with gob.
func EncodeBundle(w io.Writer, b *Bundle) error {
	raw, err := model.Marshal(b.Model)
	if err != nil {
		return err
	}
	file := bundleFile{Kind: b.Kind, Model: raw, Features: b.Features, Target: b.Target}
	if b.Subjects != nil {
		file.Subjects = b.Subjects.Classes
	}
	if err := gob.NewEncoder(w).Encode(file); err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	return nil
}

// DecodeBundle reads a bundle written by EncodeBundle.
func DecodeBundle(r io.Reader) (*Bundle, error) {
	var file bundleFile
	if err := gob.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	m, err := model.Unmarshal(file.Kind, file.Model)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		Kind:     file.Kind,
		Model:    m,
		Subjects: &dataprep.LabelEncoder{Classes: file.Subjects},
		Features: file.Features,
		Target:   file.Target,
	}, nil
}

// SaveBundle writes b to path. The parent directory must exist.
func SaveBundle(path string, b *Bundle) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return EncodeBundle(f, b)
}

func LoadBundle(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return DecodeBundle(f)
}
