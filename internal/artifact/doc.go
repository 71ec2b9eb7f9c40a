// Package artifact provides the file-system primitives entities are bound
// to: a File couples one on-disk path with a Codec that frames its format.
//
// Codecs translate between raw file content and the generic tree values the
// reconciliation core operates on. The core itself never interprets a
// format; YAML, JSON and plain line-oriented files are all reconciled
// through the same subset algorithm. New formats only need a Codec
// implementation.
//
// An artifact that exists but is entirely empty decodes to a nil tree. The
// scheduler interprets that as an explicit opt-out: the user keeps the file
// but does not want driftwood to manage its content.
package artifact
