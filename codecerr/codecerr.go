// sampleconv
// Licensed under MIT

// Package codecerr defines the structured error taxonomy shared by every
// codec in this module. Every kind surfaces the absolute byte offset it was
// detected at, the logical chunk-ID trail leading to it, and the verb
// (operation) that was being performed, so a Notifier can log something
// actionable and callers can recover per-file rather than per-batch.
package codecerr

import "fmt"

// BadMagic is returned when an expected literal tag did not match.
type BadMagic struct {
	Expected string
	Got      string
	Offset   int64
	Path     string
	Verb     string
}

func (e *BadMagic) Error() string {
	return fmt.Sprintf("%s: bad magic at offset %d (path %s): expected %q, got %q",
		e.Verb, e.Offset, e.Path, e.Expected, e.Got)
}

// UnsupportedVersion is returned when a chunk or file structure version is
// higher than this codec understands.
type UnsupportedVersion struct {
	Version int
	Offset  int64
	Path    string
	Verb    string
}

func (e *UnsupportedVersion) Error() string {
	return fmt.Sprintf("%s: unsupported version 0x%x at offset %d (path %s)", e.Verb, e.Version, e.Offset, e.Path)
}

// UnknownChunk is a non-fatal condition: the chunk ID is not in the known
// table. Callers preserve the bytes and continue; this type exists so the
// Notifier can log a structured warning.
type UnknownChunk struct {
	ID     int
	Offset int64
	Path   string
}

func (e *UnknownChunk) Error() string {
	return fmt.Sprintf("unknown chunk id 0x%x at offset %d (path %s)", e.ID, e.Offset, e.Path)
}

// WrongAuthoringApplication is returned when an NI Container's
// AuthoringApplication chunk doesn't say Kontakt.
type WrongAuthoringApplication struct {
	Got    string
	Offset int64
}

func (e *WrongAuthoringApplication) Error() string {
	return fmt.Sprintf("wrong authoring application at offset %d: got %q", e.Offset, e.Got)
}

// EncryptedContent is a non-fatal condition: an Authorization chunk carried
// a non-empty serial/PID list. Parsing continues on unencrypted siblings.
type EncryptedContent struct {
	Offset int64
	Path   string
}

func (e *EncryptedContent) Error() string {
	return fmt.Sprintf("encrypted content at offset %d (path %s)", e.Offset, e.Path)
}

// MonolithSampleCountMismatch is returned when a Kontakt 2 monolith's
// backward header scan found a different number of headers than filenames.
type MonolithSampleCountMismatch struct {
	Expected int
	Found    int
	Offset   int64
}

func (e *MonolithSampleCountMismatch) Error() string {
	return fmt.Sprintf("monolith sample count mismatch at offset %d: expected %d, found %d",
		e.Offset, e.Expected, e.Found)
}

// NoMatchingInMemoryFile is returned when a zone references a sample that
// isn't present in a decoded monolith's in-memory file table.
type NoMatchingInMemoryFile struct {
	ZoneName string
	FileName string
}

func (e *NoMatchingInMemoryFile) Error() string {
	return fmt.Sprintf("no matching in-memory file %q for zone %q", e.FileName, e.ZoneName)
}

// CompressedSampleUnsupported is returned when a zone's sample payload is a
// compressed format (e.g. NCW) whose bit-level decoding is out of scope.
type CompressedSampleUnsupported struct {
	Format string
}

func (e *CompressedSampleUnsupported) Error() string {
	return fmt.Sprintf("compressed sample format %q is not supported", e.Format)
}

// InvalidModel is returned by multisample.Validate when an in-memory model
// breaks a structural invariant (key/velocity range bounds, start/stop
// ordering, loop extents). Path is the entity trail (multisample/group/zone)
// rather than a chunk-ID trail, since the violation is in the model, not in
// a wire payload.
type InvalidModel struct {
	Path   string
	Verb   string
	Reason string
}

func (e *InvalidModel) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Verb, e.Reason)
	}
	return fmt.Sprintf("%s: %s (path %s)", e.Verb, e.Reason, e.Path)
}

// Truncated is returned when EOF is reached before the end of an expected
// length-prefixed block.
type Truncated struct {
	Offset   int64
	Path     string
	Verb     string
	Expected int64
	Got      int64
}

func (e *Truncated) Error() string {
	return fmt.Sprintf("%s: truncated at offset %d (path %s): expected %d bytes, got %d",
		e.Verb, e.Offset, e.Path, e.Expected, e.Got)
}
