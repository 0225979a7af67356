// Package validator adds Indian business identifier checks to go-playground/validator
// and registers them on gin's binding engine.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/gst-invoice-api/pkg/apperror"
)

var (
	gstinPattern   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	phonePattern   = regexp.MustCompile(`^(\+91[\-\s]?)?[6-9][0-9]{9}$`)
	hsnPattern     = regexp.MustCompile(`^([0-9]{4}|[0-9]{6}|[0-9]{8})$`)
)

// IsGSTIN reports whether s is a well-formed 15 character GSTIN.
func IsGSTIN(s string) bool { return gstinPattern.MatchString(strings.ToUpper(s)) }

// IsPAN reports whether s is a well-formed PAN.
func IsPAN(s string) bool { return panPattern.MatchString(strings.ToUpper(s)) }

// IsPincode reports whether s is a six digit postal code.
func IsPincode(s string) bool { return pincodePattern.MatchString(s) }

// IsIFSC reports whether s is a bank branch IFSC code.
func IsIFSC(s string) bool { return ifscPattern.MatchString(strings.ToUpper(s)) }

// IsPhone reports whether s is an Indian mobile number, optionally prefixed with +91.
func IsPhone(s string) bool { return phonePattern.MatchString(s) }

// IsHSN reports whether s is a 4, 6 or 8 digit HSN/SAC code.
func IsHSN(s string) bool { return hsnPattern.MatchString(s) }

var rules = map[string]func(string) bool{
	"gstin":       IsGSTIN,
	"pan":         IsPAN,
	"pincode":     IsPincode,
	"ifsc":        IsIFSC,
	"indianphone": IsPhone,
	"hsn":         IsHSN,
}

var messages = map[string]string{
	"required":    "is required",
	"email":       "must be a valid email address",
	"min":         "is too short",
	"max":         "is too long",
	"gte":         "must not be negative",
	"lte":         "is too large",
	"oneof":       "has an unsupported value",
	"gstin":       "must be a valid 15 character GSTIN",
	"pan":         "must be a valid PAN",
	"pincode":     "must be a valid 6 digit pincode",
	"ifsc":        "must be a valid IFSC code",
	"indianphone": "must be a valid 10 digit phone number",
	"hsn":         "must be a 4, 6 or 8 digit HSN/SAC code",
}

// Register adds the custom tags to v. Empty strings pass so that optional
// fields only need `omitempty`-free tags when they are required.
func Register(v *validator.Validate) error {
	for tag, check := range rules {
		check := check
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			return s == "" || check(s)
		})
		if err != nil {
			return fmt.Errorf("register %s validation: %w", tag, err)
		}
	}
	return nil
}

// RegisterGin installs the custom tags on gin's default validator.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

// FieldErrors converts a binding error into per-field messages. It returns nil
// when err is not a validation failure (malformed JSON, wrong types).
func FieldErrors(err error) []apperror.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		switch {
		case !ok:
			msg = "is invalid"
		case fe.Tag() == "gte" && fe.Param() != "0":
			msg = "is too small"
		}
		out = append(out, apperror.FieldError{
			Field:   toSnake(fe.Field()),
			Message: msg,
		})
	}
	return out
}

func toSnake(s string) string {
	isUpper := func(c byte) bool { return c >= 'A' && c <= 'Z' }

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUpper(c) {
			// Word boundary: "bankIFSC" -> bank_ifsc, "GSTNumber" -> gst_number.
			if i > 0 && (!isUpper(s[i-1]) || (i+1 < len(s) && !isUpper(s[i+1]))) {
				b.WriteByte('_')
			}
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}
