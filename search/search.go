package search

import (
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// trawl recursively walks uri via TileDB's VFS, collecting files whose
// basename matches pattern. Adapted from the teacher's search.go trawl,
// with its panic-on-list-error calls converted to ordinary error returns to
// match the rest of this codebase's idiom (e.g. file.go's
// OpenObservationFile). An error listing any directory stops the whole
// walk and is returned to the caller; no partial result is returned.
func trawl(vfs *tiledb.VFS, pattern string, uri string, items []string) ([]string, error) {
	dirs, files, err := vfs.List(uri)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		match, err := filepath.Match(pattern, filepath.Base(file))
		if err != nil {
			return nil, err
		}
		if match {
			items = append(items, file)
		}
	}

	for _, dir := range dirs {
		items, err = trawl(vfs, pattern, dir, items)
		if err != nil {
			return nil, err
		}
	}

	return items, nil
}

// FindLabels recursively searches for *.LBL PDS label files under uri (A2,
// Observation Discovery), using TileDB's VFS so the search works
// transparently against a local filesystem or an object store such as
// AWS S3. A TileDB config is required for object stores with permission
// constraints. Each returned label URI anchors one SHARAD observation: its
// companion science (*_RGRAM.DAT or *_REST.DAT) and auxiliary (*_REST.AUX)
// files are discovered via the label's own pointer fields (see label.go).
func FindLabels(uri string, configURI string) ([]string, error) {
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
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, err
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return nil, err
	}
	defer vfs.Free()

	return trawl(vfs, "*.LBL", uri, make([]string, 0))
}
