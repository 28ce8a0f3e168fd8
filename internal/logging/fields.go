package logging

// Structured field names shared by the commands, the engine and the
// language server.
const (
	FieldError  = "error"
	FieldPath   = "path"
	FieldConfig = "config"
	FieldURI    = "uri"

	FieldProduction = "production"
	FieldOutcome    = "outcome"
	FieldTerm       = "term"
	FieldTerms      = "terms"
	FieldConsumed   = "consumed"
	FieldEntries    = "entries"
	FieldFarthest   = "farthest"
)
