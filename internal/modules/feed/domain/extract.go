package domain

import (
	"regexp"
	"strings"
)

// Kind says which heading a batch of session strings was found under.
type Kind string

const (
	KindNone Kind = ""
	KindNext Kind = "next"
	KindLast Kind = "last"
)

// The extraction front-end is deliberately dumb: the page layout shifts, so
// we anchor on the announcement headings and pull anything shaped like
// "<range>, <weekday> <day> <month>" out of the following block. Everything
// smarter happens in the watch module's resolver.
var (
	nextHeading    = regexp.MustCompile(`(?i)Next\s+Sessions?:`)
	lastHeading    = regexp.MustCompile(`(?i)Last\s+Session:`)
	nextBlockEnd   = regexp.MustCompile(`(?i)<h\d[^>]*>`)
	lastBlockEnd   = regexp.MustCompile(`(?i)<h\d[^>]*>|Next Power Tower`)
	lineBreak      = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag         = regexp.MustCompile(`<[^>]+>`)
	sessionPattern = regexp.MustCompile(`(?i)\d+(?:am|pm)?-\d+(?:am|pm)?,\s*[A-Za-z]+\s*\d+(?:st|nd|rd|th)?\s*[A-Za-z]+`)
)

// Extract pulls candidate session strings out of raw page markup. Results
// keep first-seen order and contain no duplicates.
func Extract(content string) (Kind, []string) {
	if loc := nextHeading.FindStringIndex(content); loc != nil {
		return KindNext, sessionsInBlock(content[loc[1]:], nextBlockEnd)
	}
	if loc := lastHeading.FindStringIndex(content); loc != nil {
		return KindLast, sessionsInBlock(content[loc[1]:], lastBlockEnd)
	}
	return KindNone, nil
}

func sessionsInBlock(rest string, blockEnd *regexp.Regexp) []string {
	if loc := blockEnd.FindStringIndex(rest); loc != nil {
		rest = rest[:loc[0]]
	}
	rest = lineBreak.ReplaceAllString(rest, "\n")
	text := anyTag.ReplaceAllString(rest, "")

	var sessions []string
	seen := map[string]struct{}{}
	for _, candidate := range sessionPattern.FindAllString(text, -1) {
		candidate = strings.TrimSpace(candidate)
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		sessions = append(sessions, candidate)
	}
	return sessions
}
