package models

// ProcessMode selects what the two compared locations are
type ProcessMode string

const (
	// ProcessFile compares two workbooks sheet by sheet
	ProcessFile ProcessMode = "file"
	// ProcessFolder compares two folders of CSV files
	ProcessFolder ProcessMode = "folder"
)

// Valid reports whether m is a known process mode
func (m ProcessMode) Valid() bool {
	return m == ProcessFile || m == ProcessFolder
}

// HashMethod defines how file contents are fingerprinted
type HashMethod string

const (
	// HashMD5 compares MD5 digests
	HashMD5 HashMethod = "md5"
	// HashSHA256 compares SHA-256 digests
	HashSHA256 HashMethod = "sha256"
	// HashBinary compares raw bytes without hashing
	HashBinary HashMethod = "binary"
)

// DiffAlgorithm defines how changed files are diffed line by line
type DiffAlgorithm string

const (
	// AlgorithmDifflib matches lines like Python's difflib
	AlgorithmDifflib DiffAlgorithm = "difflib"
	// AlgorithmMyers matches lines with diff-match-patch
	AlgorithmMyers DiffAlgorithm = "myers"
)

// CompareOperation holds the resolved options of one comparison run
type CompareOperation struct {
	ID              string
	OldPath         string
	NewPath         string
	Process         ProcessMode
	Hash            HashMethod
	Algorithm       DiffAlgorithm
	ContextLines    int
	Clean           bool // drop context lines from printed diffs
	Visual          bool // open changed files in an external tool instead of printing diffs
	VisualTool      string
	ExcludePatterns []string
	BufferSize      int
}

// Validate checks if the operation configuration is valid
func (op *CompareOperation) Validate() error {
	if op.OldPath == "" {
		return &ValidationError{Field: "OldPath", Message: "old location is required"}
	}
	if op.NewPath == "" {
		return &ValidationError{Field: "NewPath", Message: "new location is required"}
	}
	if !op.Process.Valid() {
		return &ValidationError{Field: "Process", Message: "must be file or folder"}
	}
	if op.ContextLines < 0 {
		return &ValidationError{Field: "ContextLines", Message: "must not be negative"}
	}
	if op.Visual && op.VisualTool == "" {
		return &ValidationError{Field: "VisualTool", Message: "a visual diff tool is required with --ui"}
	}
	if op.BufferSize < 4096 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 4096 bytes"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
