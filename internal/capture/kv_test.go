package capture

import (
	"reflect"
	"testing"

	"llamactl/pkg/types"
)

func TestParseKVScalars(t *testing.T) {
	lines := []string{
		"llama_model_loader: - kv   0: general.architecture str = llama",
		"llama_model_loader: - kv   1: llama.context_length u32 = 4096",
		"llama_model_loader: - kv   2: general.quantized bool = true",
		"llama_context: n_ctx = 8192", // not a kv line, ignored
	}
	kv := parseKVLines(lines)
	if len(kv) != 3 {
		t.Fatalf("expected 3 keys, got %d: %v", len(kv), kv)
	}
	if v := kv["general.architecture"]; v.Kind != types.KVScalar || v.Scalar != "llama" {
		t.Fatalf("unexpected architecture: %+v", v)
	}
	if v := kv["llama.context_length"]; v.Scalar != "4096" {
		t.Fatalf("unexpected context_length: %+v", v)
	}
}

func TestParseKVArray(t *testing.T) {
	lines := []string{
		`llama_model_loader: - kv   8: general.tags arr[str,3] = ["chat", "instruct", "tiny"]`,
	}
	kv := parseKVLines(lines)
	v := kv["general.tags"]
	if v.Kind != types.KVArray {
		t.Fatalf("expected array, got %+v", v)
	}
	want := []string{"chat", "instruct", "tiny"}
	if !reflect.DeepEqual(v.Array, want) {
		t.Fatalf("got %v want %v", v.Array, want)
	}
}

func TestParseKVTruncatedArray(t *testing.T) {
	lines := []string{
		`llama_model_loader: - kv   9: general.tags arr[str,40] = ["a", "b", "c", ...]`,
	}
	kv := parseKVLines(lines)
	v := kv["general.tags"]
	if v.Kind != types.KVOmitted || v.Reason != "truncated" || v.Count != 40 {
		t.Fatalf("expected truncated marker with declared count, got %+v", v)
	}
}

func TestParseKVOmittedMarker(t *testing.T) {
	lines := []string{
		"llama_model_loader: - kv  10: tokenizer.ggml.scores arr[f32,32000] = <omitted, 32000 entries>",
	}
	kv := parseKVLines(lines)
	v := kv["tokenizer.ggml.scores"]
	if v.Kind != types.KVOmitted || v.Reason != "omitted" || v.Count != 32000 {
		t.Fatalf("expected omitted marker, got %+v", v)
	}
}

func TestParseKVWarningOnLostContextLength(t *testing.T) {
	// the context_length line is present but mangled enough that the kv
	// pattern does not match it
	lines := []string{
		"print_info: model params = 1.10 B",
		"load: context_length override 4096",
	}
	kv := parseKVLines(lines)
	v, ok := kv[kvParseWarningKey]
	if !ok || v.Kind != types.KVScalar {
		t.Fatalf("expected parse warning, got %v", kv)
	}
}

func TestParseKVNoWarningWhenParsed(t *testing.T) {
	lines := []string{
		"llama_model_loader: - kv   1: llama.context_length u32 = 4096",
	}
	kv := parseKVLines(lines)
	if _, ok := kv[kvParseWarningKey]; ok {
		t.Fatalf("unexpected warning: %v", kv)
	}
}

func TestComputeDerived(t *testing.T) {
	kv := map[string]types.KVValue{
		"llama.context_length": types.ScalarValue("4096"),
	}
	args := []string{"-m", "/m/x.gguf", "-c", "8192"}
	d := computeDerived(kv, args)
	if d["training_ctx"] != 4096 || d["requested_ctx"] != 8192 {
		t.Fatalf("unexpected derived: %v", d)
	}
	if d["ctx_ratio"] != 2 {
		t.Fatalf("ctx_ratio: got %v want 2", d["ctx_ratio"])
	}
}

func TestComputeDerivedEmpty(t *testing.T) {
	if d := computeDerived(map[string]types.KVValue{}, nil); d != nil {
		t.Fatalf("expected nil derived, got %v", d)
	}
}
