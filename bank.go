package sharad

import (
	"path"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// VFSCalibrationBank is a CalibrationBank backed by a directory of
// calibration files reachable through TileDB's VFS, so the bank can live on
// local disk or any object store TileDB supports, matching how the teacher
// reads science data over VFS rather than assuming a local path (file.go).
type VFSCalibrationBank struct {
	ctx     *tiledb.Context
	baseURI string
}

// NewVFSCalibrationBank constructs a bank rooted at baseURI, using ctx for
// all VFS operations.
func NewVFSCalibrationBank(ctx *tiledb.Context, baseURI string) *VFSCalibrationBank {
	return &VFSCalibrationBank{ctx: ctx, baseURI: baseURI}
}

// ReadFile reads name from the bank's base directory in full.
func (b *VFSCalibrationBank) ReadFile(name string) ([]byte, error) {
	config, err := tiledb.NewConfig()
	if err != nil {
		return nil, err
	}
	defer config.Free()

	vfs, err := tiledb.NewVFS(b.ctx, config)
	if err != nil {
		return nil, err
	}
	defer vfs.Free()

	uri := path.Join(b.baseURI, name)

	handle, err := vfs.Open(uri, tiledb.TILEDB_VFS_READ)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	size, err := vfs.FileSize(uri)
	if err != nil {
		return nil, err
	}

	stream, err := GenericStream(handle, size, true)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	if _, err := stream.Read(buf); err != nil {
		return nil, err
	}

	return buf, nil
}
