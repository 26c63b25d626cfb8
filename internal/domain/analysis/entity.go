package analysis

import "strings"

// RecordID is the primary key of the only row the store ever holds.
const RecordID int64 = 1

// Separator joins the existing body and every appended fragment.
const Separator = "\n\n"

// Record is the stored analysis. Body maps to the gpt_output column.
type Record struct {
	ID         int64  `json:"-"`
	Company    string `json:"company"`
	Buyer      string `json:"buyer"`
	MatrixCell string `json:"matrix_cell"`
	Body       string `json:"markdown"`
}

// Appended returns a copy of r with fragment joined onto the body.
// fragment is expected to be validated already.
func (r Record) Appended(fragment string) Record {
	r.Body = r.Body + Separator + strings.TrimSpace(fragment)
	return r
}

// Seed is the first-boot content of the record.
type Seed struct {
	Company    string
	Buyer      string
	MatrixCell string
	GPTOutput  string
}

// Record converts the seed into the row inserted on first boot.
func (s Seed) Record() *Record {
	return &Record{
		ID:         RecordID,
		Company:    s.Company,
		Buyer:      s.Buyer,
		MatrixCell: s.MatrixCell,
		Body:       s.GPTOutput,
	}
}
