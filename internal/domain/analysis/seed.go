package analysis

import (
	"encoding/json"
	"fmt"
)

// seedDocument mirrors the seed file. Pointers tell a missing key from an empty one.
type seedDocument struct {
	Company    *string `json:"company"`
	Buyer      *string `json:"buyer"`
	MatrixCell *string `json:"matrix_cell"`
	GPTOutput  *string `json:"gptOutput"`
}

// ParseSeed decodes a seed document. All four keys are required.
func ParseSeed(data []byte) (Seed, error) {
	var doc seedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Seed{}, fmt.Errorf("malformed seed json: %w", err)
	}

	required := []struct {
		key string
		val *string
	}{
		{"company", doc.Company},
		{"buyer", doc.Buyer},
		{"matrix_cell", doc.MatrixCell},
		{"gptOutput", doc.GPTOutput},
	}
	for _, r := range required {
		if r.val == nil {
			return Seed{}, fmt.Errorf("seed json missing required key %q", r.key)
		}
	}

	return Seed{
		Company:    *doc.Company,
		Buyer:      *doc.Buyer,
		MatrixCell: *doc.MatrixCell,
		GPTOutput:  *doc.GPTOutput,
	}, nil
}
