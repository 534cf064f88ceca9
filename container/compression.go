package container

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how buffer payloads are stored.
type Compression uint8

const (
	// CompressionNone stores buffers verbatim; packed files then load
	// without copying.
	CompressionNone Compression = iota
	// CompressionLZ4 uses LZ4 blocks (fast).
	CompressionLZ4
	// CompressionZSTD uses zstd (better ratio).
	CompressionZSTD
)

var errSizeMismatch = errors.New("decompressed size mismatch")

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Compression) MarshalText() ([]byte, error) {
	switch c {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
		return []byte(c.String()), nil
	}
	return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidFormat, uint8(c))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Compression) UnmarshalText(b []byte) error {
	parsed, err := ParseCompression(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	}
	return 0, fmt.Errorf("%w: unknown compression %q", ErrInvalidFormat, s)
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
}

// compress returns the stored form of data and the compression actually
// applied. Data that does not shrink below 90% is stored uncompressed.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	if c == CompressionNone || len(data) == 0 {
		return data, CompressionNone, nil
	}

	var out []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, 0, err
		}
		out = buf[:n]
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, 0, err
		}
		out = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, 0, fmt.Errorf("%w: unknown compression %d", ErrInvalidFormat, uint8(c))
	}

	if len(out) == 0 || float64(len(out)) > float64(len(data))*0.9 {
		return data, CompressionNone, nil
	}
	return out, c, nil
}

// Largest expansion either codec can produce: an LZ4 sequence yields at most
// 255 bytes per input byte, a 4-byte zstd RLE block at most 128 KiB.
const (
	maxRatioLZ4  = 255
	maxRatioZSTD = 1 << 15
)

// maxRaw bounds the decompressed size of stored bytes under c.
func maxRaw(stored uint64, c Compression) uint64 {
	ratio := uint64(1)
	switch c {
	case CompressionLZ4:
		ratio = maxRatioLZ4
	case CompressionZSTD:
		ratio = maxRatioZSTD
	}
	if stored > math.MaxUint64/ratio {
		return math.MaxUint64
	}
	return stored * ratio
}

// decompress restores rawSize bytes from stored.
func decompress(stored []byte, c Compression, rawSize int) ([]byte, error) {
	switch c {
	case CompressionNone:
		if len(stored) != rawSize {
			return nil, errSizeMismatch
		}
		return stored, nil
	case CompressionLZ4:
		out := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(stored, out)
		if err != nil {
			return nil, err
		}
		if n != rawSize {
			return nil, errSizeMismatch
		}
		return out, nil
	case CompressionZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(stored, make([]byte, 0, rawSize))
		if err != nil {
			return nil, err
		}
		if len(out) != rawSize {
			return nil, errSizeMismatch
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidFormat, uint8(c))
}
