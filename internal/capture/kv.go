package capture

import (
	"regexp"
	"strconv"
	"strings"

	"llamactl/pkg/types"
)

// kvParseWarningKey flags a parser regression: a context-length line was
// captured but the key is missing from the parsed dictionary.
const kvParseWarningKey = "_kv_parse_warning"

// tagsKey is the field recovered from the model file when textual capture
// lost or truncated it.
const tagsKey = "general.tags"

// kv diagnostic lines look like:
//
//	llama_model_loader: - kv  12: llama.context_length u32 = 4096
//	llama_model_loader: - kv  20: general.tags arr[str,3] = ["chat", "tiny", "test"]
var kvLineRe = regexp.MustCompile(`- kv\s+\d+:\s+(\S+)\s+(str|bool|u8|i8|u16|i16|u32|i32|u64|i64|f32|f64|arr)(?:\[([^\]]*)\])?\s+= (.*)$`)

var omittedMarkerRe = regexp.MustCompile(`^<omitted, (\d+) entries>$`)

// parseKVLines builds the typed key-value dictionary from captured lines.
// Lines that do not look like kv diagnostics are ignored.
func parseKVLines(lines []string) map[string]types.KVValue {
	kv := make(map[string]types.KVValue)
	sawContextLine := false
	for _, line := range lines {
		if strings.Contains(line, "context_length") {
			sawContextLine = true
		}
		m := kvLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key, tag, arrSpec, raw := m[1], m[2], m[3], strings.TrimSpace(m[4])
		if tag == "arr" {
			kv[key] = parseArrayValue(arrSpec, raw)
		} else {
			kv[key] = types.ScalarValue(raw)
		}
	}
	if sawContextLine && !hasContextLengthKey(kv) {
		kv[kvParseWarningKey] = types.ScalarValue("context_length line captured but key missing after parse")
	}
	return kv
}

func hasContextLengthKey(kv map[string]types.KVValue) bool {
	for k := range kv {
		if strings.HasSuffix(k, ".context_length") {
			return true
		}
	}
	return false
}

// parseArrayValue handles the three shapes an array value can take in the
// capture buffer: a summarized marker, a truncated display, or a full list.
func parseArrayValue(spec, raw string) types.KVValue {
	declared := 0
	if i := strings.LastIndex(spec, ","); i >= 0 {
		declared, _ = strconv.Atoi(strings.TrimSpace(spec[i+1:]))
	}
	if m := omittedMarkerRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return types.OmittedValue(n, "omitted")
	}
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return types.ScalarValue(raw)
	}
	inner := strings.TrimSpace(raw[1 : len(raw)-1])
	if inner == "" {
		return types.ArrayValue(nil)
	}
	parts := strings.Split(inner, ",")
	elems := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "..." {
			// llama-server truncates long array displays with an ellipsis
			return types.OmittedValue(declared, "truncated")
		}
		elems = append(elems, strings.Trim(p, `"`))
	}
	return types.ArrayValue(elems)
}

// computeDerived relates the launch command to the model's trained limits.
func computeDerived(kv map[string]types.KVValue, args []string) map[string]float64 {
	out := make(map[string]float64)
	if train := contextLengthFromKV(kv); train > 0 {
		out["training_ctx"] = train
	}
	if req := requestedCtx(args); req > 0 {
		out["requested_ctx"] = req
	}
	if out["training_ctx"] > 0 && out["requested_ctx"] > 0 {
		out["ctx_ratio"] = out["requested_ctx"] / out["training_ctx"]
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func contextLengthFromKV(kv map[string]types.KVValue) float64 {
	for k, v := range kv {
		if !strings.HasSuffix(k, ".context_length") || v.Kind != types.KVScalar {
			continue
		}
		if f, err := strconv.ParseFloat(v.Scalar, 64); err == nil {
			return f
		}
	}
	return 0
}

func requestedCtx(args []string) float64 {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-c" || args[i] == "--ctx-size" {
			if f, err := strconv.ParseFloat(args[i+1], 64); err == nil {
				return f
			}
		}
	}
	return 0
}
