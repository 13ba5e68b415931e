// Package libdiff computes structural differences between two parsed
// documents.
//
// # Usage
//
//	changes := libdiff.Diff(oldDoc, newDoc)
//	libdiff.Render(os.Stdout, changes, libdiff.NewColors(true))
//
// Arrays are aligned with a sequence diff over item summaries, so an
// inserted item shows up as one insertion rather than a change to every
// later index. Differing strings carry a character level diff.
package libdiff
