package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID).
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name.
	FieldComponent = "component"

	// FieldEntryID is a history entry ID.
	FieldEntryID = "entry_id"

	// FieldModel is the model identifier used for a generation call.
	FieldModel = "model"

	// FieldTone is the resolved caption tone.
	FieldTone = "tone"
)

// Standard metric fields, attached at the log site.
const (
	// FieldDurationMs is the execution duration in milliseconds.
	FieldDurationMs = "duration_ms"

	// FieldStatus is the HTTP or operation status.
	FieldStatus = "status"

	// FieldSize is a data size in bytes.
	FieldSize = "size"
)
