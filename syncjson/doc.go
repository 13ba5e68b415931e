// Package syncjson is the JSON backend of synclib.
//
// A Writer implements the Saving side and, wrapped in a synclib.Deduper by
// the Write entry points, encodes shared and cyclic graphs with slot ids:
//
//	{"$id":1,"name":"a","next":{"$ref":1}}
//
// Deduplicated lists are wrapped as {"$id":n,"$values":[...]}. Values
// written one after another on one Writer are separated by a newline.
//
// A Reader implements the Loading side over a parsed Value tree, so fields
// may be read in any order. Back-references resolve to the instance the
// shape-function bound with SetCurrentObject.
//
// Set SYNC_DEBUG_SESSION=true to log the start and end of each session.
package syncjson
