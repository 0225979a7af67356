package enum_test

import (
	"encoding/json"
	"testing"

	"github.com/sangkips/gst-invoice-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxType_Scan(t *testing.T) {
	var tt enum.TaxType
	require.NoError(t, tt.Scan(int64(1)))
	assert.Equal(t, enum.TaxTypeInterstate, tt)

	require.NoError(t, tt.Scan(nil))
	assert.Equal(t, enum.TaxTypeIntrastate, tt)

	tt = enum.TaxTypeInterstate
	assert.Error(t, tt.Scan(int64(7)))
	assert.Error(t, tt.Scan(int64(-1)))
	assert.Error(t, tt.Scan("interstate"))
	assert.Equal(t, enum.TaxTypeInterstate, tt, "a rejected value leaves the receiver untouched")
}

func TestDocumentType_Scan(t *testing.T) {
	var dt enum.DocumentType
	require.NoError(t, dt.Scan(int64(2)))
	assert.Equal(t, enum.DocumentTypeCreditNote, dt)

	assert.Error(t, dt.Scan(int64(3)))
	assert.Equal(t, enum.DocumentTypeCreditNote, dt)
}

func TestTaxType_JSON(t *testing.T) {
	var tt enum.TaxType
	require.NoError(t, json.Unmarshal([]byte(`"Interstate"`), &tt))
	assert.Equal(t, enum.TaxTypeInterstate, tt)

	require.NoError(t, json.Unmarshal([]byte(`0`), &tt))
	assert.Equal(t, enum.TaxTypeIntrastate, tt)

	assert.Error(t, json.Unmarshal([]byte(`5`), &tt))
	assert.Error(t, json.Unmarshal([]byte(`"export"`), &tt))

	raw, err := json.Marshal(enum.TaxTypeInterstate)
	require.NoError(t, err)
	assert.JSONEq(t, `"interstate"`, string(raw))
}
