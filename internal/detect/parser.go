package detect

import (
	"regexp"
	"strconv"
	"strings"
)

// The model reply is free-form text. The usual shape is a repeating block per
// button:
//
//	BUTTON 1:
//	Text: "Submit"
//	Position: (142, 380)
//	Appearance: rounded, dark blue
//
// but none of it is guaranteed. The parser is a single forward scan with one
// open record at a time and no backtracking. Per line the matchers run in a
// fixed priority order: record marker, text, position, appearance, then a
// fallback scan for quoted strings and coordinate pairs. The order matters: a
// text line that happens to contain a parenthesized pair must bind as the
// label, not as coordinates.
var (
	recordStartRe = regexp.MustCompile(`(?i)^button\s+\d+[^:]*:`)
	coordPairRe   = regexp.MustCompile(`\(\s*(\d+)\s*,\s*(\d+)\s*\)`)
	quotedRe      = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)
)

// Parse extracts button candidates from raw model output. It is a pure
// function and never fails: unparseable input degrades to fewer or zero
// candidates. Records that end up without a label are dropped; records with a
// label but no parseable position are kept with Position nil.
func Parse(text string) []ButtonCandidate {
	var out []ButtonCandidate
	var open *ButtonCandidate

	flush := func() {
		if open != nil && open.Label != "" {
			out = append(out, *open)
		}
		open = nil
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if recordStartRe.MatchString(line) {
			flush()
			open = &ButtonCandidate{}
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "text:"):
			if open == nil {
				open = &ButtonCandidate{}
			}
			open.Label = textValue(line)
		case strings.HasPrefix(lower, "position:"):
			if open == nil {
				open = &ButtonCandidate{}
			}
			if p, ok := coordValue(line); ok {
				open.Position = &p
			}
		case strings.HasPrefix(lower, "appearance:"):
			if open == nil {
				open = &ButtonCandidate{}
			}
			open.Appearance = strings.TrimSpace(line[len("appearance:"):])
		default:
			if open == nil {
				continue
			}
			if open.Label == "" {
				if s, ok := quotedValue(line); ok {
					open.Label = s
				}
			}
			if open.Position == nil {
				if p, ok := coordValue(line); ok {
					open.Position = &p
				}
			}
		}
	}

	flush()
	return out
}

// textValue extracts the label from a "Text: ..." line. The first quoted
// substring wins; without quotes everything after the first colon is taken,
// trimmed, with stray boundary quotes stripped.
func textValue(line string) string {
	if s, ok := quotedValue(line); ok {
		return s
	}
	idx := strings.Index(line, ":")
	if idx < 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(line[idx+1:]), `"'`)
}

// quotedValue returns the first single- or double-quoted substring on the line.
func quotedValue(line string) (string, bool) {
	m := quotedRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	// The alternatives capture into different groups; the quote the match
	// starts with decides which one fired. An empty m[1] is still a valid
	// double-quoted match ("").
	if strings.HasPrefix(m[0], `"`) {
		return m[1], true
	}
	return m[2], true
}

// coordValue returns the first "(x, y)" pair of non-negative integers on the
// line. Anything before or after the parentheses is ignored.
func coordValue(line string) (Point, bool) {
	m := coordPairRe.FindStringSubmatch(line)
	if m == nil {
		return Point{}, false
	}
	x, errX := strconv.Atoi(m[1])
	y, errY := strconv.Atoi(m[2])
	if errX != nil || errY != nil {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}
