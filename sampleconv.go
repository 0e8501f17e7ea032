// sampleconv
// Licensed under MIT

/*
Package sampleconv converts multi-sample instrument libraries between the
proprietary container formats of hardware and software samplers: Native
Instruments Kontakt presets (NKI, monolith, NI Container) and Yamaha YSFC
libraries (Motif XS/XF, MOXF, Montage, MODX). Every codec reads and writes
through the shared in-memory model in package multisample; this package is
the thin façade a caller starts from.
*/
package sampleconv

import (
	"io"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/convert"
	"github.com/mukunda-go/sampleconv/notifier"
)

// Returned when the library format could not be detected.
var ErrUnknownFormat = convert.ErrUnknownFormat

// LoadMultiSample loads a sampler library by filename, detecting the format
// from its leading bytes.
func LoadMultiSample(filename string) (*MultiSample, error) {
	return convert.ConvertFile(filename, notifier.Nop())
}

// LoadMultiSampleFromStream loads a library from an open stream. Seeking is
// required.
func LoadMultiSampleFromStream(r io.ReadSeeker) (*MultiSample, error) {
	return convert.Decode(bytestream.NewReader(r), notifier.Nop(), "")
}
