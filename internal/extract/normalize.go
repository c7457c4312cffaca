package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// dmyPattern matches DD-MM-YYYY and DD/MM/YYYY dates.
var dmyPattern = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)

// NormalizeDate converts DD-MM-YYYY and DD/MM/YYYY dates to YYYY-MM-DD.
// Anything else passes through unchanged — the backend rejects truly
// malformed dates with a validation error the caller sees verbatim.
func NormalizeDate(date string) string {
	date = strings.TrimSpace(date)

	m := dmyPattern.FindStringSubmatch(date)
	if m == nil {
		return date
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])

	return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
}
