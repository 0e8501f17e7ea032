// sampleconv
// Licensed under MIT

package ysfc

import (
	"bytes"
	"encoding/binary"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/notifier"
)

// Loop modes stored in a key-bank's loopMode byte.
const (
	LoopModeForward = 0
	LoopModeOneShot = 1
	LoopModeReverse = 2
)

// KeyBank is the wire-level metadata descriptor of one sample slice — the
// YSFC analogue of a zone. Fields are kept in stored form;
// the translation to model units happens in decode.go/encode.go so the
// key-bank can round-trip bytes it doesn't interpret.
type KeyBank struct {
	KeyRangeLower uint8
	KeyRangeUpper uint8
	VelLower      uint8
	VelUpper      uint8

	// Level is normalized to the 0..255 scale on read: version-1 files
	// store 0..128 and are doubled coming in, halved going out.
	Level uint8
	Pan   uint8

	FixedPitch uint8
	RootNote   uint8
	CoarseTune uint8
	FineTune   uint8
	Channels   uint8
	LoopTune   uint8
	PlayForm   uint8
	WaveFormat uint8
	LoopMode   uint8

	LoopPointRest uint8

	// CompressionInfo preserves the 12 compression/encryption bytes
	// verbatim; their interior layout is out of scope.
	CompressionInfo [12]byte

	SampleFrequency uint32
	PlayStart       uint32
	PlayEnd         uint32
	LoopStart       uint32 // resolved frame index, not the stored value
	LoopEnd         uint32

	// MOXF-specific totals, present only in version-1 MOXF files.
	ChannelOffset uint32
	SampleOffset  uint32
	SampleNumber  uint32
	SampleSize    uint32
}

// readKeyBank decodes one key-bank. version1 selects the pre-Montage layout
// (big-endian positions, halved level, direct loop start); ws gates the
// MOXF tail and the encrypted-content tolerance.
func readKeyBank(r *bytestream.Reader, version1 bool, ws Workstation, n notifier.Notifier) (*KeyBank, error) {
	start := r.Offset()
	head, err := r.Bytes(17)
	if err != nil {
		return nil, err
	}

	kb := &KeyBank{
		KeyRangeLower: head[0],
		KeyRangeUpper: head[1],
		VelLower:      head[2],
		VelUpper:      head[3],
		Level:         head[4],
		Pan:           head[5],
		FixedPitch:    head[7],
		RootNote:      head[8],
		CoarseTune:    head[9],
		FineTune:      head[10],
		Channels:      head[11],
		LoopTune:      head[12],
		PlayForm:      head[13],
		WaveFormat:    head[14],
		LoopMode:      head[15],
	}
	isEncrypted := head[16]

	if kb.WaveFormat != 0 && kb.WaveFormat != 5 {
		return nil, &codecerr.UnsupportedVersion{
			Version: int(kb.WaveFormat), Offset: start, Path: "DWFM", Verb: "read key-bank wave format",
		}
	}
	if isEncrypted != 0 {
		motif1 := version1 && (ws == MotifXS || ws == MotifXF)
		if !motif1 {
			return nil, &codecerr.EncryptedContent{Offset: start, Path: "DWFM"}
		}
		if n != nil {
			n.LogError("ysfc_encrypted_keybank", &codecerr.EncryptedContent{Offset: start, Path: "DWFM"}, nil)
		}
	}

	if err := r.Skip(1); err != nil { // pad
		return nil, err
	}
	if kb.LoopPointRest, err = r.U8(); err != nil {
		return nil, err
	}
	if err := r.Skip(1); err != nil { // reserved
		return nil, err
	}
	info, err := r.Bytes(12)
	if err != nil {
		return nil, err
	}
	copy(kb.CompressionInfo[:], info)

	order := binary.ByteOrder(binary.BigEndian)
	if !version1 {
		order = binary.LittleEndian
	}
	if kb.SampleFrequency, err = r.U32(order); err != nil {
		return nil, err
	}
	if kb.PlayStart, err = r.U32(order); err != nil {
		return nil, err
	}
	if kb.PlayEnd, err = r.U32(order); err != nil {
		return nil, err
	}
	loopStartStored, err := r.U32(order)
	if err != nil {
		return nil, err
	}
	if kb.LoopEnd, err = r.U32(order); err != nil {
		return nil, err
	}

	if version1 {
		kb.LoopStart = loopStartStored
		if kb.Level <= 128 {
			kb.Level = uint8(min(int(kb.Level)*2, 255))
		}
		if ws == MOXF {
			if kb.ChannelOffset, err = r.U32(binary.BigEndian); err != nil {
				return nil, err
			}
			if kb.SampleOffset, err = r.U32(binary.BigEndian); err != nil {
				return nil, err
			}
			if kb.SampleNumber, err = r.U32(binary.BigEndian); err != nil {
				return nil, err
			}
			if kb.SampleSize, err = r.U32(binary.BigEndian); err != nil {
				return nil, err
			}
		}
	} else {
		// Version 2 stores the loop start divided by 16; the remainder
		// rides in the common block's loopPointRest byte.
		kb.LoopStart = loopStartStored*16 + uint32(kb.LoopPointRest)
		if err := r.Skip(4); err != nil { // extra reserved block
			return nil, err
		}
	}

	return kb, nil
}

func (kb *KeyBank) write(w *bytestream.Writer, version1 bool, ws Workstation) error {
	level := kb.Level
	loopStartStored := kb.LoopStart
	loopPointRest := kb.LoopPointRest
	if version1 {
		level = uint8((int(level) + 1) / 2)
	} else {
		loopStartStored = kb.LoopStart / 16
		loopPointRest = uint8(kb.LoopStart % 16)
	}

	head := []byte{
		kb.KeyRangeLower, kb.KeyRangeUpper, kb.VelLower, kb.VelUpper,
		level, kb.Pan, 0, kb.FixedPitch, kb.RootNote, kb.CoarseTune,
		kb.FineTune, kb.Channels, kb.LoopTune, kb.PlayForm, kb.WaveFormat,
		kb.LoopMode, 0, // isEncrypted always 0 on write
	}
	if err := w.Bytes(head); err != nil {
		return err
	}
	if err := w.U8(0); err != nil { // pad
		return err
	}
	if err := w.U8(loopPointRest); err != nil {
		return err
	}
	if err := w.U8(0); err != nil { // reserved
		return err
	}
	if err := w.Bytes(kb.CompressionInfo[:]); err != nil {
		return err
	}

	order := binary.ByteOrder(binary.BigEndian)
	if !version1 {
		order = binary.LittleEndian
	}
	for _, v := range []uint32{kb.SampleFrequency, kb.PlayStart, kb.PlayEnd, loopStartStored, kb.LoopEnd} {
		if err := w.U32(order, v); err != nil {
			return err
		}
	}

	if version1 {
		if ws == MOXF {
			for _, v := range []uint32{kb.ChannelOffset, kb.SampleOffset, kb.SampleNumber, kb.SampleSize} {
				if err := w.U32(binary.BigEndian, v); err != nil {
					return err
				}
			}
		}
	} else {
		if err := w.Pad(4, 0x00); err != nil { // extra reserved block
			return err
		}
	}
	return nil
}

// parseKeyBanks decodes a DWFM data item: u16 count, 2 pad bytes, then the
// key-banks.
func parseKeyBanks(body []byte, version1 bool, ws Workstation, n notifier.Notifier) ([]*KeyBank, error) {
	r := bytestream.NewReader(bytes.NewReader(body))
	count, err := r.U16(binary.BigEndian)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	banks := make([]*KeyBank, 0, count)
	for i := 0; i < int(count); i++ {
		kb, err := readKeyBank(r, version1, ws, n)
		if err != nil {
			return nil, err
		}
		banks = append(banks, kb)
	}
	return banks, nil
}

func encodeKeyBanks(banks []*KeyBank, version1 bool, ws Workstation) ([]byte, error) {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)
	if err := w.U16(binary.BigEndian, uint16(len(banks))); err != nil {
		return nil, err
	}
	if err := w.Pad(2, 0x00); err != nil {
		return nil, err
	}
	for _, kb := range banks {
		if err := kb.write(w, version1, ws); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
