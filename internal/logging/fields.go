package logging

// Field name constants for structured logging. Constants keep the key
// set consistent across commands.
const (
	// Common fields.
	FieldError  = "error"
	FieldInput  = "input"
	FieldOutput = "output"
	FieldConfig = "config"

	// Render fields.
	FieldExtensions = "extensions"
	FieldHTMLFlags  = "html_flags"
	FieldMaxNesting = "max_nesting"
	FieldBytesIn    = "bytes_in"
	FieldBytesOut   = "bytes_out"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
