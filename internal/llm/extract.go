package llm

import (
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:go|golang)?[ \t]*\n(.*?)```")

// ExtractCode isolates the snippet from a model response. If the response contains a fenced code
// block the first block's body is returned; otherwise the trimmed response is used as-is.
func ExtractCode(response string) string {
	if match := fencedBlock.FindStringSubmatch(response); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(response)
}
