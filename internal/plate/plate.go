// Package plate validates vehicle registration numbers before a reservation
// request leaves the client. Validation here is advisory format checking only;
// the backend revalidates on every reserve call.
package plate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type series struct {
	name        string
	re          *regexp.Regexp
	serialGroup int
}

// Strict policy: the single-state Gujarat rule.
// GJ + district 01-33 + two letters + four-digit serial.
var strictSeries = []series{
	{"standard", regexp.MustCompile(`^GJ(0[1-9]|[12][0-9]|3[0-3])[A-Z]{2}([0-9]{4})$`), 2},
}

// Regional policy: the broader registration classes. District numbers run
// 01-99 and serials are 1-4 digits (6 for military), never all zeros.
var regionalSeries = []series{
	{"standard", regexp.MustCompile(`^[A-Z]{2}(0[1-9]|[1-9][0-9])[A-Z]{1,3}([0-9]{1,4})$`), 2},
	{"temporary", regexp.MustCompile(`^[A-Z]{2}(0[1-9]|[1-9][0-9])T([0-9]{1,4})$`), 2},
	{"diplomatic", regexp.MustCompile(`^[0-9]{1,3}(CD|CC|UN)([0-9]{1,4})$`), 2},
	{"military", regexp.MustCompile(`^[0-9]{2}[A-H]([0-9]{6})[A-Z]$`), 1},
	{"vintage", regexp.MustCompile(`^[A-Z]{2}VA[A-Z]{2}([0-9]{1,4})$`), 1},
}

var (
	ErrEmpty        = errors.New("vehicle number is empty")
	errZeroSerial   = errors.New("vehicle number serial cannot be all zeros")
	strictFormatMsg = "Vehicle number must be in format: GJ01AA0001 to GJ33ZZ9999 (not 0000)"
)

type Validator struct {
	policy string
	series []series
}

func NewValidator(policy string) (*Validator, error) {
	switch policy {
	case "strict":
		return &Validator{policy: policy, series: strictSeries}, nil
	case "regional":
		return &Validator{policy: policy, series: regionalSeries}, nil
	default:
		return nil, fmt.Errorf("unknown plate policy %q", policy)
	}
}

// Normalize upper-cases and trims a raw vehicle number, matching what is sent
// to the backend.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Validate checks the normalized number against the policy's series set.
// The returned error message is suitable for showing to the user.
func (v *Validator) Validate(raw string) error {
	number := Normalize(raw)
	if number == "" {
		return ErrEmpty
	}
	for _, s := range v.series {
		m := s.re.FindStringSubmatch(number)
		if m == nil {
			continue
		}
		// RE2 has no lookahead, so the all-zero serial exclusion is an
		// explicit submatch check.
		if allZeros(m[s.serialGroup]) {
			return errZeroSerial
		}
		return nil
	}
	if v.policy == "strict" {
		return errors.New(strictFormatMsg)
	}
	return fmt.Errorf("vehicle number %q is not a recognised registration format", number)
}

// Series reports which registration class a number matches, for display.
func (v *Validator) Series(raw string) (string, bool) {
	number := Normalize(raw)
	for _, s := range v.series {
		m := s.re.FindStringSubmatch(number)
		if m != nil && !allZeros(m[s.serialGroup]) {
			return s.name, true
		}
	}
	return "", false
}

func allZeros(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			return false
		}
	}
	return true
}
