package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Parser extracts a count from element text
type Parser func(text string) (uint64, error)

var digitRun = sync.OnceValue(func() *regexp.Regexp {
	return regexp.MustCompile(`[0-9]+`)
})

// ParseLeadingToken parses the first whitespace-separated token of text.
// Thousands separators are not stripped: "1,234 jobs" is a parse error.
func ParseLeadingToken(text string) (uint64, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, NewError(ErrParse, "", "no leading token", nil)
	}

	token := strings.TrimSpace(fields[0])
	n, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, NewError(ErrParse, "", fmt.Sprintf("leading token %q is not a count", token), err)
	}
	return n, nil
}

// ParseFirstDigitRun parses the first maximal run of decimal digits anywhere in text
func ParseFirstDigitRun(text string) (uint64, error) {
	run := digitRun().FindString(text)
	if run == "" {
		return 0, NewError(ErrParse, "", fmt.Sprintf("no digits in %q", text), nil)
	}

	n, err := strconv.ParseUint(run, 10, 64)
	if err != nil {
		return 0, NewError(ErrParse, "", fmt.Sprintf("digit run %q is not a count", run), err)
	}
	return n, nil
}
