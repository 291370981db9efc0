package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/ports"
	"github.com/iamNilotpal/press/pkg/errors"
)

// lz4Codec implements the codec contract on pierrec's lz4 block API. The
// reference library has no self-describing container, so this adapter owns
// its own framing, which is part of the wire contract:
//
//	one-shot:  [original size: u32 LE][block]
//	streaming: [original size: u16 LE][compressed size: u16 LE][block],
//	           terminated by a zero/zero header pair with no block.
//
// The block API reports incompressible input instead of expanding it, so a
// block whose compressed size equals its original size is stored raw and
// copied verbatim on decode. A genuinely compressed block is always
// shorter than its input, which keeps the encoding unambiguous; a
// compressed size above the original is corruption.
type lz4Codec struct{}

func newLZ4Codec() *lz4Codec { return &lz4Codec{} }

const (
	// lz4OneShotHeader is the u32 original-size prefix length.
	lz4OneShotHeader = 4

	// lz4BlockHeader is the u16/u16 streaming block prefix length.
	lz4BlockHeader = 4

	// lz4MaxBlock caps streaming block payloads so that both the original
	// size and the worst-case compressed size (n + n/255 + 16) fit the u16
	// header fields.
	lz4MaxBlock = 65000

	// lz4MaxOneShot caps the one-shot original size at the lz4 block
	// limit.
	lz4MaxOneShot = 0x7fffffff
)

// hcLevels maps native levels 2-12 onto the library's HC depths; depths
// past the deepest supported one clamp to it. Native level 1 uses the fast
// (non-HC) block compressor.
var hcLevels = []lz4.CompressionLevel{
	lz4.Level1, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

// compressBlock compresses src into a fresh buffer, returning the raw
// src itself when the library reports it incompressible.
func lz4CompressBlock(src []byte, nativeLevel int) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(src)))

	var (
		n   int
		err error
	)
	if nativeLevel <= 1 {
		var c lz4.Compressor
		n, err = c.CompressBlock(src, dst)
	} else {
		idx := nativeLevel - 2
		if idx >= len(hcLevels) {
			idx = len(hcLevels) - 1
		}
		c := lz4.CompressorHC{Level: hcLevels[idx]}
		n, err = c.CompressBlock(src, dst)
	}
	if err != nil {
		return nil, err
	}

	// n == 0 means incompressible; n >= len(src) never beats storing raw.
	if n == 0 || n >= len(src) {
		return src, nil
	}
	return dst[:n], nil
}

func (c *lz4Codec) Algorithm() domain.Algorithm { return domain.LZ4 }

func (c *lz4Codec) Compress(data []byte, nativeLevel int) ([]byte, error) {
	if len(data) > lz4MaxOneShot {
		return nil, errors.Wrap(
			errors.KindInvalidInput, domain.LZ4.String(), "compress",
			fmt.Errorf("input exceeds lz4 block limit: %d bytes", len(data)),
		)
	}

	block, err := lz4CompressBlock(data, nativeLevel)
	if err != nil {
		return nil, errors.Wrap(errors.KindCompression, domain.LZ4.String(), "compress", err)
	}

	out := make([]byte, lz4OneShotHeader+len(block))
	binary.LittleEndian.PutUint32(out, uint32(len(data)))
	copy(out[lz4OneShotHeader:], block)
	return out, nil
}

func (c *lz4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.KindInvalidInput, domain.LZ4.String(), "decompress: empty input")
	}
	if len(data) < lz4OneShotHeader {
		return nil, errors.New(errors.KindCorruptedData, domain.LZ4.String(), "decompress: input shorter than length header")
	}

	orig := int(binary.LittleEndian.Uint32(data))
	block := data[lz4OneShotHeader:]

	switch {
	case orig == 0:
		if len(block) != 0 {
			return nil, errors.New(errors.KindCorruptedData, domain.LZ4.String(), "decompress: trailing bytes after empty payload")
		}
		return []byte{}, nil

	case len(block) == orig:
		// Stored raw.
		out := make([]byte, orig)
		copy(out, block)
		return out, nil

	case len(block) > orig:
		return nil, errors.New(errors.KindCorruptedData, domain.LZ4.String(), "decompress: compressed payload larger than original size")

	case orig > 255*len(block)+256:
		// An lz4 block cannot expand past ~255x, so a header claiming more
		// is corrupt. Checked before allocating the output.
		return nil, errors.New(errors.KindCorruptedData, domain.LZ4.String(), "decompress: original size exceeds maximum expansion")
	}

	out := make([]byte, orig)
	n, err := lz4.UncompressBlock(block, out)
	if err != nil {
		return nil, errors.Wrap(errors.KindCorruptedData, domain.LZ4.String(), "decompress", err)
	}
	if n != orig {
		return nil, errors.New(errors.KindCorruptedData, domain.LZ4.String(), "decompress: decoded size does not match header")
	}
	return out, nil
}

func (c *lz4Codec) NewStreamCompressor(nativeLevel int) (ports.StreamCompressor, error) {
	return &lz4StreamCompressor{level: nativeLevel}, nil
}

func (c *lz4Codec) NewStreamDecompressor() (ports.StreamDecompressor, error) {
	return &lz4StreamDecompressor{}, nil
}

func (c *lz4Codec) Close() error { return nil }

// lz4StreamCompressor frames staged input into independent blocks. Blocks
// are emitted as soon as a full lz4MaxBlock worth of input is staged; the
// final partial block and the end marker are emitted by Finish.
type lz4StreamCompressor struct {
	level     int
	staged    bytes.Buffer // uncompressed input not yet framed
	pending   bytes.Buffer // framed output not yet drained
	finishing bool
	closed    bool
}

func (s *lz4StreamCompressor) Write(in, out []byte) (int, int, error) {
	if s.finishing || s.closed {
		return 0, 0, errors.New(errors.KindStreamFinished, domain.LZ4.String(), "stream write")
	}

	produced := drainBuffer(&s.pending, out)
	if produced == len(out) && len(in) > 0 {
		return 0, produced, nil
	}

	consumed := 0
	if len(in) > 0 {
		s.staged.Write(in)
		consumed = len(in)
	}

	for s.staged.Len() >= lz4MaxBlock {
		if err := s.emitBlock(s.staged.Next(lz4MaxBlock)); err != nil {
			return consumed, produced, err
		}
	}

	produced += drainBuffer(&s.pending, out[produced:])
	return consumed, produced, nil
}

func (s *lz4StreamCompressor) Finish(out []byte) (int, error) {
	if s.closed {
		return 0, errors.New(errors.KindStreamFinished, domain.LZ4.String(), "stream finish")
	}

	if !s.finishing {
		s.finishing = true

		if s.staged.Len() > 0 {
			if err := s.emitBlock(s.staged.Next(s.staged.Len())); err != nil {
				return 0, err
			}
		}
		// End-of-stream marker: zero original size, zero compressed size.
		s.pending.Write([]byte{0, 0, 0, 0})
	}

	return drainBuffer(&s.pending, out), nil
}

func (s *lz4StreamCompressor) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.staged.Reset()
	s.pending.Reset()
	return nil
}

func (s *lz4StreamCompressor) emitBlock(block []byte) error {
	compressed, err := lz4CompressBlock(block, s.level)
	if err != nil {
		return errors.Wrap(errors.KindCompression, domain.LZ4.String(), "stream write", err)
	}

	var header [lz4BlockHeader]byte
	binary.LittleEndian.PutUint16(header[0:], uint16(len(block)))
	binary.LittleEndian.PutUint16(header[2:], uint16(len(compressed)))

	s.pending.Write(header[:])
	s.pending.Write(compressed)
	return nil
}

// lz4StreamDecompressor parses the streaming frame: length-prefixed
// independent blocks terminated by the zero/zero marker.
type lz4StreamDecompressor struct {
	staged     []byte       // compressed input not yet parsed
	pending    bytes.Buffer // decoded output not yet drained
	markerSeen bool
	finished   bool
	closed     bool
}

func (s *lz4StreamDecompressor) Write(in, out []byte) (int, int, error) {
	if s.finished || s.closed {
		return 0, 0, errors.New(errors.KindStreamFinished, domain.LZ4.String(), "stream write")
	}
	if s.markerSeen && len(in) > 0 {
		return 0, 0, errors.New(errors.KindCorruptedData, domain.LZ4.String(), "stream write: data past end of stream")
	}

	s.staged = append(s.staged, in...)
	if err := s.parseBlocks(); err != nil {
		return len(in), 0, err
	}

	return len(in), drainBuffer(&s.pending, out), nil
}

func (s *lz4StreamDecompressor) parseBlocks() error {
	for len(s.staged) >= lz4BlockHeader {
		orig := int(binary.LittleEndian.Uint16(s.staged[0:]))
		compressed := int(binary.LittleEndian.Uint16(s.staged[2:]))

		if orig == 0 && compressed == 0 {
			s.markerSeen = true
			if len(s.staged) > lz4BlockHeader {
				return errors.New(errors.KindCorruptedData, domain.LZ4.String(), "stream write: data past end marker")
			}
			s.staged = nil
			return nil
		}

		if compressed > orig || orig == 0 {
			return errors.New(errors.KindCorruptedData, domain.LZ4.String(), "stream write: invalid block header")
		}
		if len(s.staged) < lz4BlockHeader+compressed {
			return nil // need more data for this block
		}

		block := s.staged[lz4BlockHeader : lz4BlockHeader+compressed]

		if compressed == orig {
			// Stored raw.
			s.pending.Write(block)
		} else {
			dst := make([]byte, orig)
			n, err := lz4.UncompressBlock(block, dst)
			if err != nil {
				return errors.Wrap(errors.KindCorruptedData, domain.LZ4.String(), "stream write", err)
			}
			if n != orig {
				return errors.New(errors.KindCorruptedData, domain.LZ4.String(), "stream write: decoded size does not match header")
			}
			s.pending.Write(dst[:n])
		}

		s.staged = s.staged[lz4BlockHeader+compressed:]
	}

	return nil
}

func (s *lz4StreamDecompressor) Finish() error {
	if s.closed {
		return errors.New(errors.KindStreamFinished, domain.LZ4.String(), "stream finish")
	}
	if s.finished {
		return nil
	}
	s.finished = true

	if !s.markerSeen {
		return errors.New(errors.KindUnexpectedEOF, domain.LZ4.String(), "stream finish: stream ended before end marker")
	}
	return nil
}

func (s *lz4StreamDecompressor) Drain(out []byte) (int, error) {
	if s.closed {
		return 0, errors.New(errors.KindStreamFinished, domain.LZ4.String(), "stream drain")
	}
	return drainBuffer(&s.pending, out), nil
}

func (s *lz4StreamDecompressor) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.staged = nil
	s.pending.Reset()
	return nil
}

// drainBuffer copies up to len(out) bytes from buf into out.
func drainBuffer(buf *bytes.Buffer, out []byte) int {
	if buf.Len() == 0 || len(out) == 0 {
		return 0
	}
	n, _ := buf.Read(out)
	return n
}
