// Package archive writes fetched page bodies to disk under
// content-addressed names.
//
// Filenames are the SHA-256 of the body, so identical content already on
// disk is never rewritten regardless of which URL served it. Compressed
// mode gzips the body and appends a .gz suffix.
package archive
