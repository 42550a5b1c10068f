package imageprocessor

import (
	"os/exec"

	"imagerank/logging"

	"github.com/barasher/go-exiftool"
)

// Metadata holds the capture details shown in listings
type Metadata struct {
	Taken  string
	Camera string
}

// MetadataReader wraps a running exiftool process
type MetadataReader struct {
	et *exiftool.Exiftool
}

// ExiftoolAvailable reports whether the exiftool binary is on PATH
func ExiftoolAvailable() bool {
	_, err := exec.LookPath("exiftool")
	return err == nil
}

// NewMetadataReader starts exiftool. Close must be called when done.
func NewMetadataReader() (*MetadataReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, err
	}
	return &MetadataReader{et: et}, nil
}

// Read extracts metadata for every path. Files exiftool cannot read are
// missing from the result.
func (r *MetadataReader) Read(paths ...string) map[string]Metadata {
	out := make(map[string]Metadata, len(paths))
	if len(paths) == 0 {
		return out
	}
	for _, fi := range r.et.ExtractMetadata(paths...) {
		if fi.Err != nil {
			logging.LogWarning("Error extracting metadata from %s: %v", fi.File, fi.Err)
			continue
		}
		var md Metadata
		for _, tag := range []string{"DateTimeOriginal", "CreateDate"} {
			if v, err := fi.GetString(tag); err == nil && v != "" {
				md.Taken = v
				break
			}
		}
		if model, err := fi.GetString("Model"); err == nil {
			md.Camera = model
		}
		out[fi.File] = md
	}
	return out
}

// Close stops the exiftool process
func (r *MetadataReader) Close() error {
	return r.et.Close()
}
