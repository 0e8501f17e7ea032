// sampleconv
// Licensed under MIT

package convert

import (
	"sync/atomic"

	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/notifier"
)

// Cancel is the cooperative cancellation flag the batch driver checks at
// file boundaries. Mid-file cancellation is not supported; a partially read
// file is always discarded, never returned.
type Cancel struct {
	flag atomic.Bool
}

// Set requests cancellation. Safe to call from another goroutine.
func (c *Cancel) Set() { c.flag.Store(true) }

// Requested reports whether cancellation has been requested.
func (c *Cancel) Requested() bool { return c != nil && c.flag.Load() }

// BatchResult pairs one input path with its outcome. Errors never propagate
// across files: a failed file is recorded and the batch continues.
type BatchResult struct {
	Path        string
	MultiSample *multisample.MultiSample
	Err         error
}

// ConvertBatch decodes every path in order, checking the cancellation flag
// between files. Results keep input order; a cancelled batch returns the
// results accumulated so far.
func ConvertBatch(paths []string, cancel *Cancel, n notifier.Notifier) []BatchResult {
	if n == nil {
		n = notifier.Nop()
	}
	var results []BatchResult
	for _, path := range paths {
		if cancel.Requested() {
			n.Log("batch_cancelled", map[string]any{"completed": len(results), "total": len(paths)})
			break
		}
		ms, err := ConvertFile(path, n)
		if err != nil {
			n.LogError("file_failed", err, map[string]any{"path": path})
		}
		results = append(results, BatchResult{Path: path, MultiSample: ms, Err: err})
	}
	return results
}
