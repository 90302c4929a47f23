package sharad

import (
	"bytes"
	"encoding/binary"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// Stream is a generic reader type so the pipeline can treat a science or
// auxiliary file opened from local disk, an object store, or an in-memory
// byte buffer identically -- all that's required are Read and Seek.
// Grounded on the teacher's reader.go Stream interface (there backed by
// *tiledb.VFSfh or *bytes.Reader).
type Stream interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}

// Tell reports the current position within a Stream.
func Tell(stream Stream) (int64, error) {
	return stream.Seek(0, 1)
}

// GenericStream wraps an open TileDB VFS file handle as a Stream, optionally
// slurping it fully into memory first. Observations are read sequentially
// start to finish by the Presum Driver, so in-memory mode trades peak
// memory for avoiding repeated small VFS reads over a network-backed URI.
func GenericStream(handle *tiledb.VFSfh, size uint64, inMemory bool) (Stream, error) {
	if inMemory {
		buffer := make([]byte, size)
		if err := binary.Read(handle, binary.BigEndian, &buffer); err != nil {
			return nil, err
		}
		return bytes.NewReader(buffer), nil
	}
	return handle, nil
}
