package report

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tankmate/tankmate/internal/models"
)

// Dump writes v as a YAML document.
func Dump(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// ReadAquarium decodes an aquarium description. Unknown keys are
// rejected.
func ReadAquarium(r io.Reader) (models.AquariumDesc, error) {
	var desc models.AquariumDesc

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		if errors.Is(err, io.EOF) {
			return desc, fmt.Errorf("reading aquarium: empty document")
		}
		return desc, fmt.Errorf("reading aquarium: %w", err)
	}

	if err := desc.Validate(); err != nil {
		return desc, fmt.Errorf("invalid aquarium: %w", err)
	}

	return desc, nil
}
