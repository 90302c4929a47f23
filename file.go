package sharad

import (
	"io"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// ObservationFile is a VFS-backed science, auxiliary, or calibration file
// opened for streamed reading, adapted from the teacher's GsfFile/OpenGSF
// pattern (file.go). TileDB's VFS lets the same code path read a local
// path, an S3/GCS/Azure URI, or any other backend TileDB supports, without
// the pipeline knowing the difference.
type ObservationFile struct {
	URI      string
	filesize uint64
	config   *tiledb.Config
	ctx      *tiledb.Context
	vfs      *tiledb.VFS
	handle   *tiledb.VFSfh
	Stream
}

// OpenObservationFile opens uri for streamed IO. If configURI is empty, a
// default TileDB configuration is used. inMemory selects whether the file
// is slurped fully into memory (see GenericStream).
func OpenObservationFile(uri string, configURI string, inMemory bool) (*ObservationFile, error) {
	var (
		config *tiledb.Config
		err    error
	)

	if configURI == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(configURI)
	}
	if err != nil {
		return nil, err
	}

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, err
	}

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return nil, err
	}

	handle, err := vfs.Open(uri, tiledb.TILEDB_VFS_READ)
	if err != nil {
		return nil, err
	}

	filesize, err := vfs.FileSize(uri)
	if err != nil {
		return nil, err
	}

	stream, err := GenericStream(handle, filesize, inMemory)
	if err != nil {
		return nil, err
	}

	return &ObservationFile{
		URI:      uri,
		filesize: filesize,
		config:   config,
		ctx:      ctx,
		vfs:      vfs,
		handle:   handle,
		Stream:   stream,
	}, nil
}

// Size reports the file's length in bytes.
func (f *ObservationFile) Size() uint64 {
	return f.filesize
}

// ReadAll rewinds to the start of the file and reads it to EOF. Used for
// the auxiliary table, which is decoded wholesale rather than streamed
// record-by-record.
func (f *ObservationFile) ReadAll() ([]byte, error) {
	if _, err := f.Stream.Seek(0, 0); err != nil {
		return nil, err
	}
	return io.ReadAll(f.Stream)
}

// Close releases the file's VFS handle and the config/context/vfs objects
// that back it. Safe to call once per successful OpenObservationFile.
func (f *ObservationFile) Close() error {
	if err := f.handle.Close(); err != nil {
		return err
	}
	f.vfs.Free()
	f.ctx.Free()
	f.config.Free()
	return nil
}
