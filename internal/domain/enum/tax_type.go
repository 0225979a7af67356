package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TaxType selects which GST components apply to a document
type TaxType int

const (
	// TaxTypeIntrastate applies CGST + SGST (supplier and recipient in the same state)
	TaxTypeIntrastate TaxType = 0
	// TaxTypeInterstate applies IGST only
	TaxTypeInterstate TaxType = 1
)

var taxTypeNames = [...]string{"intrastate", "interstate"}

func (t TaxType) String() string {
	if int(t) < 0 || int(t) >= len(taxTypeNames) {
		return taxTypeNames[TaxTypeIntrastate]
	}
	return taxTypeNames[t]
}

// ParseTaxType parses the wire form ("interstate" or "intrastate"), case-insensitively.
func ParseTaxType(s string) (TaxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "intrastate":
		return TaxTypeIntrastate, nil
	case "interstate":
		return TaxTypeInterstate, nil
	}
	return TaxTypeIntrastate, fmt.Errorf("unknown tax type %q", s)
}

func (t TaxType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TaxType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if i < 0 || i >= len(taxTypeNames) {
			return fmt.Errorf("unknown tax type %d", i)
		}
		*t = TaxType(i)
		return nil
	}
	parsed, err := ParseTaxType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TaxType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TaxType) Scan(value interface{}) error {
	var n int64
	switch v := value.(type) {
	case nil:
		*t = TaxTypeIntrastate
		return nil
	case int64:
		n = v
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	default:
		return fmt.Errorf("cannot scan %T into tax type", value)
	}
	if n < 0 || n >= int64(len(taxTypeNames)) {
		return fmt.Errorf("unknown tax type %d", n)
	}
	*t = TaxType(n)
	return nil
}
