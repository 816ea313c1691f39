package catalog

import (
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultBank []byte

// Bank is the YAML file format used by `catalog import` and `catalog export`.
type Bank struct {
	Questions []*QuestionBankItem `yaml:"questions"`
}

func DecodeBank(r io.Reader) (*Bank, error) {
	var b Bank
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	return &b, nil
}

func EncodeBank(w io.Writer, b *Bank) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode question bank: %w", err)
	}
	return enc.Close()
}

// DefaultBank returns the built-in glaucoma and cancer question banks.
func DefaultBank() (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(defaultBank, &b); err != nil {
		return nil, fmt.Errorf("decode default question bank: %w", err)
	}
	return &b, nil
}
