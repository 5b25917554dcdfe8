// Package loader turns a raw facility configuration document into a
// validated plant.Graph.
//
// The pipeline is: decode the document bytes (JSON, YAML or CUE) into a
// cue.Value, assemble the eight entity collections by resolving each raw
// record into its concrete variant, then run the referential validator.
// A document either loads fully or the load fails as a whole.
//
// All decode errors carry a stable error code and, where the source
// position is known, a CUE token.Pos pointing into the document.
package loader
