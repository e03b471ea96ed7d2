package billing

import (
	"fmt"
	"regexp"
	"strconv"
)

var numberSuffix = regexp.MustCompile(`\d+$`)

// FormatNumber renders a document number as "<PREFIX>-<YEAR>-<NNNN>" with the
// sequence left-padded to 4 digits (wider sequences are not truncated).
func FormatNumber(kind string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", kind, year, seq)
}

// MaxSuffix scans existing document numbers and returns the highest trailing
// run of digits, treating numbers without a digit suffix as 0. It is the
// legacy scan the front end used for numbering; the server now only uses it to
// seed a sequence from rows that predate the sequence table.
func MaxSuffix(numbers []string) int {
	max := 0
	for _, n := range numbers {
		m := numberSuffix.FindString(n)
		if m == "" {
			continue
		}
		v, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if v > max {
			max = v
		}
	}
	return max
}

// NextFromExisting returns the next number after a scan of existing numbers of
// the same kind: max trailing suffix + 1, formatted for the given year. An
// empty set yields "<PREFIX>-<YEAR>-0001".
func NextFromExisting(kind string, year int, existing []string) string {
	return FormatNumber(kind, year, MaxSuffix(existing)+1)
}
