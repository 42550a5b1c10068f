// Package imageprocessor inspects image files: format detection, pixel
// dimensions from decoded headers, full decoding for formats OpenCV cannot
// read, and capture metadata through exiftool.
package imageprocessor
