// Package archive extracts ZIP deliveries into a record folder.
//
// Entry names are validated before anything is written: absolute paths and
// names with a ".." segment are skipped, the remaining entries still extract.
// The extracted count reported by [Extract] is the number of non-directory
// entries actually written, not the size of the archive manifest; both are
// available on [Result].
package archive
