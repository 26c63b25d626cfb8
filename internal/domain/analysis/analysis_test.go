package analysis

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFragment(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "Addendum.", want: "Addendum."},
		{name: "trimmed", in: "  \n Addendum.\t ", want: "Addendum."},
		{name: "inner whitespace kept", in: " a\n\nb ", want: "a\n\nb"},
		{name: "empty", in: "", wantErr: true},
		{name: "whitespace only", in: "   \n\t", wantErr: true},
		{name: "at limit", in: strings.Repeat("a", MaxFragmentLength), want: strings.Repeat("a", MaxFragmentLength)},
		{name: "over limit", in: strings.Repeat("a", MaxFragmentLength+1), wantErr: true},
		{name: "multibyte at limit", in: strings.Repeat("é", MaxFragmentLength), want: strings.Repeat("é", MaxFragmentLength)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFragment(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindValidation, KindOf(err))
				var e *Error
				require.True(t, errors.As(err, &e))
				assert.Equal(t, FieldNewContent, e.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordAppended(t *testing.T) {
	r := Record{ID: RecordID, Company: "Acme", Body: "Initial text."}

	once := r.Appended("  f1 ")
	twice := once.Appended("f2")

	assert.Equal(t, "Initial text.", r.Body, "receiver must not change")
	assert.Equal(t, "Initial text.\n\nf1", once.Body)
	assert.Equal(t, "Initial text.\n\nf1\n\nf2", twice.Body)
	assert.Equal(t, "Acme", twice.Company)
}

func TestParseSeed(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		seed, err := ParseSeed([]byte(`{"company":"Acme","buyer":"Globex","matrix_cell":"A1","gptOutput":"Initial text."}`))
		require.NoError(t, err)
		assert.Equal(t, Seed{Company: "Acme", Buyer: "Globex", MatrixCell: "A1", GPTOutput: "Initial text."}, seed)

		rec := seed.Record()
		assert.Equal(t, RecordID, rec.ID)
		assert.Equal(t, "Initial text.", rec.Body)
	})

	t.Run("empty strings are allowed", func(t *testing.T) {
		seed, err := ParseSeed([]byte(`{"company":"","buyer":"","matrix_cell":"","gptOutput":""}`))
		require.NoError(t, err)
		assert.Equal(t, Seed{}, seed)
	})

	t.Run("extra keys ignored", func(t *testing.T) {
		_, err := ParseSeed([]byte(`{"company":"a","buyer":"b","matrix_cell":"c","gptOutput":"d","other":1}`))
		require.NoError(t, err)
	})

	for _, key := range []string{"company", "buyer", "matrix_cell", "gptOutput"} {
		t.Run("missing "+key, func(t *testing.T) {
			fields := map[string]string{"company": "a", "buyer": "b", "matrix_cell": "c", "gptOutput": "d"}
			delete(fields, key)
			var parts []string
			for k, v := range fields {
				parts = append(parts, fmt.Sprintf("%q:%q", k, v))
			}
			_, err := ParseSeed([]byte("{" + strings.Join(parts, ",") + "}"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseSeed([]byte(`{"company":`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed")
	})
}

func TestErrorKinds(t *testing.T) {
	nf := NotFoundError("No analysis found")
	assert.True(t, errors.Is(nf, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", nf)))

	cause := errors.New("disk full")
	st := StorageError("database error", cause)
	assert.True(t, errors.Is(st, cause))
	assert.False(t, errors.Is(st, ErrNotFound))
	assert.Equal(t, "database error: disk full", st.Error())

	assert.Equal(t, Kind(0), KindOf(cause))
	assert.Equal(t, "validation", KindValidation.String())
}
