package render

import (
	"bytes"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// GenerateDiff generates a line diff between two snapshot summaries, in the
// "+ added / - removed / unchanged" shape git users expect.
func GenerateDiff(previous, current string) string {
	dmp := diffmatchpatch.New()

	// Line-level diff: tokenize lines to chars, diff, expand back.
	a, b, lines := dmp.DiffLinesToChars(previous, current)
	diffs := dmp.DiffMain(a, b, false)
	result := dmp.DiffCharsToLines(diffs, lines)

	var buff bytes.Buffer
	for _, diff := range result {
		var prefix string
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffEqual:
			prefix = "  "
		}

		for _, line := range strings.Split(diff.Text, "\n") {
			if line == "" {
				continue
			}
			buff.WriteString(prefix + line + "\n")
		}
	}

	return buff.String()
}
