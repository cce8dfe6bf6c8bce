package model

import (
	"fmt"
	"io"
	"os"
)

// SaveWeights validates mw and writes it as JSON to filename.
//
// The export is one-way: the forecast run always retrains, so nothing in the
// module reads these files back.
func SaveWeights(mw *ModelWeights, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := WriteWeights(mw, file); err != nil {
		return err
	}
	return file.Close()
}

// WriteWeights validates mw and writes it as JSON to w.
func WriteWeights(mw *ModelWeights, w io.Writer) error {
	if err := mw.Validate(); err != nil {
		return fmt.Errorf("invalid model weights: %w", err)
	}

	data, err := mw.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to encode model weights: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write model weights: %w", err)
	}
	return nil
}
