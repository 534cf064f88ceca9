// Package fs abstracts the file operations used to write containers and
// local blobs, so tests can inject failures.
//
// Production code uses Default (LocalFS). FaultyFS wraps another FileSystem
// and fails writes, syncs or closes for files matching a rule:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".jag", fs.Fault{FailAfterBytes: 64})
//
// WriteAtomic writes through a temporary file and renames it into place, so
// readers never observe a partially written file.
package fs
