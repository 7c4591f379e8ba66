package scraper

import "strings"

// Encoder turns a job title into a site query string
type Encoder func(title string) string

// EncodePlus replaces every space with "+"
func EncodePlus(title string) string {
	return strings.ReplaceAll(title, " ", "+")
}

// EncodePercent20 replaces every space with "%20"
func EncodePercent20(title string) string {
	return strings.ReplaceAll(title, " ", "%20")
}
