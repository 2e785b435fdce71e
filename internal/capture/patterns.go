package capture

import (
	"fmt"
	"regexp"
	"strings"
)

// Capture ceilings: once either is reached capture stops permanently while
// terminal echo continues.
const (
	maxCaptureLines = 400
	maxCaptureBytes = 64 << 10
)

// One-shot triggers measured in captured (not echoed) lines.
const (
	pidProbeAfterLines     = 3
	interimWriteAfterLines = 10
)

// Arrays with more entries than this are summarized instead of stored.
const maxInlineArrayEntries = 16

// capturePrefixes are the loader/context/cache/system-info markers worth
// retaining from llama-server diagnostics.
var capturePrefixes = []string{
	"llama_model_loader:",
	"print_info:",
	"load:",
	"load_tensors:",
	"llama_init_from_model:",
	"llama_context:",
	"llama_kv_cache",
	"system_info:",
	"main:",
}

func matchesCapture(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, p := range capturePrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

var arrayValueRe = regexp.MustCompile(`= \[(.*)\]\s*$`)

// summarizeArrays replaces a large bracketed array value with an
// "<omitted, N entries>" marker so one vocabulary dump cannot blow the
// capture budget.
func summarizeArrays(line string) string {
	loc := arrayValueRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return line
	}
	inner := line[loc[2]:loc[3]]
	if strings.TrimSpace(inner) == "" {
		return line
	}
	n := strings.Count(inner, ",") + 1
	if n <= maxInlineArrayEntries {
		return line
	}
	return line[:loc[0]] + fmt.Sprintf("= <omitted, %d entries>", n)
}
