package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldRoot       = "root"
	FieldDuration   = "duration"

	// Pipeline fields.
	FieldPass    = "pass"
	FieldStage   = "stage"
	FieldInclude = "include"
	FieldParent  = "parent"
	FieldSnippet = "snippet"
	FieldDepth   = "depth"
	FieldTokens  = "tokens"

	// Configuration fields.
	FieldConfig = "config"
	FieldFlavor = "flavor"
	FieldJobs   = "jobs"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesRendered   = "files_rendered"
	FieldFilesFailed     = "files_failed"
	FieldIssues          = "issues"
	FieldIssue           = "issue"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
