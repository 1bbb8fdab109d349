package fingerprint

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/hashtidy/pkg/storage"
)

// HexLength is the length of a fingerprint in hexadecimal characters
const HexLength = 32

// Hasher computes content fingerprints by streaming file bytes through MD5.
// MD5 is chosen for speed, not security - the fingerprint is an identity
// key for deduplication, not a cryptographic guarantee.
type Hasher struct {
	bufferSize int
	bufferPool *sync.Pool
}

// NewHasher creates a new fingerprint hasher
func NewHasher(bufferSize int) *Hasher {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &Hasher{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Sum computes the fingerprint of a file's full byte content. It returns
// the 32-character lowercase hex digest and the number of bytes hashed.
func (h *Hasher) Sum(ctx context.Context, backend storage.Backend, name string) (string, int64, error) {
	reader, err := backend.Read(ctx, name)
	if err != nil {
		return "", 0, err
	}
	defer reader.Close()

	hash := md5.New()
	bufPtr := h.bufferPool.Get().(*[]byte)
	defer h.bufferPool.Put(bufPtr)
	buf := *bufPtr

	var bytesRead int64
	for {
		select {
		case <-ctx.Done():
			return "", bytesRead, ctx.Err()
		default:
		}

		n, err := reader.Read(buf)
		if n > 0 {
			hash.Write(buf[:n])
			bytesRead += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", bytesRead, fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), bytesRead, nil
}
