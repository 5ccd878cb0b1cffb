package service

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const diffContext = 2

// lineDiff renders a line-level diff of before/after with "-", "+" and " " prefixes.
// Unchanged runs longer than the context window collapse into "@@" separators.
func lineDiff(before, after string, limit int) string {
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for i, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			writePrefixed(&sb, "-", chunk)
		case diffmatchpatch.DiffInsert:
			writePrefixed(&sb, "+", chunk)
		case diffmatchpatch.DiffEqual:
			head, tail := diffContext, diffContext
			if i == 0 {
				head = 0
			}
			if i == len(diffs)-1 {
				tail = 0
			}
			if len(chunk) <= head+tail {
				writePrefixed(&sb, " ", chunk)
				continue
			}
			writePrefixed(&sb, " ", chunk[:head])
			sb.WriteString("@@\n")
			writePrefixed(&sb, " ", chunk[len(chunk)-tail:])
		}
		if limit > 0 && sb.Len() > limit {
			return truncate(sb.String(), limit) + "\n... diff truncated\n"
		}
	}
	return sb.String()
}

// truncate cuts text to at most limit bytes without splitting a UTF-8 sequence.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func writePrefixed(sb *strings.Builder, prefix string, lines []string) {
	for _, line := range lines {
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}
