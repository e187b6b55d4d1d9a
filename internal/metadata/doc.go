// Package metadata models per-file metadata records and the providers that
// produce them.
//
// A Provider performs one bulk extraction pass over a source tree before
// placement begins, so extraction cost is paid once per run rather than once
// per file. The default provider shells out to exiftool; an in-process
// goexif provider covers JPEG/TIFF files without the external binary, and a
// static provider backs tests.
package metadata
