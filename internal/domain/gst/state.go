package gst

import (
	"strings"

	"github.com/sangkips/gst-invoice-api/internal/domain/enum"
)

// State is a GST state or union territory identified by its two-digit code.
type State struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var states = []State{
	{"01", "Jammu and Kashmir"},
	{"02", "Himachal Pradesh"},
	{"03", "Punjab"},
	{"04", "Chandigarh"},
	{"05", "Uttarakhand"},
	{"06", "Haryana"},
	{"07", "Delhi"},
	{"08", "Rajasthan"},
	{"09", "Uttar Pradesh"},
	{"10", "Bihar"},
	{"11", "Sikkim"},
	{"12", "Arunachal Pradesh"},
	{"13", "Nagaland"},
	{"14", "Manipur"},
	{"15", "Mizoram"},
	{"16", "Tripura"},
	{"17", "Meghalaya"},
	{"18", "Assam"},
	{"19", "West Bengal"},
	{"20", "Jharkhand"},
	{"21", "Odisha"},
	{"22", "Chhattisgarh"},
	{"23", "Madhya Pradesh"},
	{"24", "Gujarat"},
	{"25", "Daman and Diu"},
	{"26", "Dadra and Nagar Haveli"},
	{"27", "Maharashtra"},
	{"28", "Andhra Pradesh"},
	{"29", "Karnataka"},
	{"30", "Goa"},
	{"31", "Lakshadweep"},
	{"32", "Kerala"},
	{"33", "Tamil Nadu"},
	{"34", "Puducherry"},
	{"35", "Andaman and Nicobar Islands"},
	{"36", "Telangana"},
	{"37", "Andhra Pradesh (New)"},
	{"38", "Ladakh"},
	{"97", "Other Territory"},
}

var stateByCode = func() map[string]string {
	m := make(map[string]string, len(states))
	for _, s := range states {
		m[s.Code] = s.Name
	}
	return m
}()

// States returns the state code table in code order.
func States() []State {
	out := make([]State, len(states))
	copy(out, states)
	return out
}

// StateName looks up the state for a two-digit code.
func StateName(code string) (string, bool) {
	name, ok := stateByCode[code]
	return name, ok
}

// StateCodeFromGSTIN returns the state code embedded in the first two
// characters of a GSTIN, or "" when it is not a known code.
func StateCodeFromGSTIN(gstin string) string {
	gstin = strings.TrimSpace(gstin)
	if len(gstin) < 2 {
		return ""
	}
	code := gstin[:2]
	if _, ok := stateByCode[code]; !ok {
		return ""
	}
	return code
}

// PANFromGSTIN extracts the PAN (characters 3 to 12) from a 15 character GSTIN.
func PANFromGSTIN(gstin string) string {
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if len(gstin) != 15 {
		return ""
	}
	return gstin[2:12]
}

// SuggestTaxType picks intrastate when both parties are registered in the same
// state and interstate otherwise, including when either state is unknown.
func SuggestTaxType(issuerGSTIN, recipientGSTIN string) enum.TaxType {
	issuer := StateCodeFromGSTIN(issuerGSTIN)
	recipient := StateCodeFromGSTIN(recipientGSTIN)
	if issuer != "" && issuer == recipient {
		return enum.TaxTypeIntrastate
	}
	return enum.TaxTypeInterstate
}
