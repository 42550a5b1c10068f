package scanner

// ScanOptions defines where images are looked for
type ScanOptions struct {
	FolderPath string
	Extensions []string // lower case with leading dot; empty means DefaultExtensions
	Recursive  bool
	DebugMode  bool
}

// ScanStats summarizes one discovery pass
type ScanStats struct {
	Files   int // regular files looked at
	Images  int // files accepted as images
	Skipped int // entries that could not be inspected
}
