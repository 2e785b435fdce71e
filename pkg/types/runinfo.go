package types

import "time"

// KVKind discriminates the variants of a KVValue.
type KVKind string

const (
	KVScalar  KVKind = "scalar"
	KVArray   KVKind = "array"
	KVOmitted KVKind = "omitted"
)

// KVValue is a tagged variant for one parsed diagnostic key-value pair.
// Exactly one of Scalar/Array carries data depending on Kind; Omitted
// records that an array value was summarized or truncated instead of stored.
type KVValue struct {
	Kind KVKind `json:"kind"`
	// Scalar payload (string form of the printed value).
	Scalar string `json:"scalar,omitempty"`
	// Array payload, element order preserved.
	Array []string `json:"array,omitempty"`
	// Entry count for an omitted array, 0 when unknown.
	Count int `json:"count,omitempty"`
	// Why the value is absent: "omitted" or "truncated".
	Reason string `json:"reason,omitempty"`
}

// ScalarValue builds a scalar KVValue.
func ScalarValue(s string) KVValue { return KVValue{Kind: KVScalar, Scalar: s} }

// ArrayValue builds an array KVValue.
func ArrayValue(elems []string) KVValue { return KVValue{Kind: KVArray, Array: elems} }

// OmittedValue builds an omitted/truncated marker KVValue.
func OmittedValue(count int, reason string) KVValue {
	return KVValue{Kind: KVOmitted, Count: count, Reason: reason}
}

// EndReason describes how a captured run terminated.
type EndReason string

const (
	EndExit   EndReason = "exit"
	EndSigint EndReason = "sigint"
	EndError  EndReason = "error"
)

// CapturedRunInfo holds the diagnostic metadata captured from one foreground
// run of a model. One document per model, overwritten on every run.
type CapturedRunInfo struct {
	Model string `json:"model"`
	// Fingerprint of the model file at capture time.
	GGUFPath      string    `json:"gguf_path"`
	GGUFSizeBytes int64     `json:"gguf_size_bytes"`
	GGUFMtime     time.Time `json:"gguf_mtime"`
	// Retained diagnostic lines, capture order, bounded.
	CapturedLines []string `json:"captured_lines"`
	// Parsed key-value pairs from the captured lines.
	KV map[string]KVValue `json:"kv"`
	// Small set of computed tuning values (e.g. ctx_ratio).
	Derived map[string]float64 `json:"derived,omitempty"`
	// True when the run did not end in a clean zero exit, or when this
	// document is an interim mid-run snapshot.
	IsPartial bool      `json:"is_partial"`
	EndReason EndReason `json:"end_reason,omitempty"`
	ExitCode  int       `json:"exit_code"`
	WrittenAt time.Time `json:"written_at"`
}

// HistoryRecord is one terminal run transition appended to the run history.
type HistoryRecord struct {
	Model string `json:"model"`
	// exited, interrupted or failed.
	Status    string    `json:"status"`
	ExitCode  int       `json:"exit_code"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}
