package sharad

import (
	"bufio"
	"strings"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// Label is the minimal set of fields this pipeline needs out of a PDS3
// .LBL file: the pointers to the companion science and auxiliary tables,
// the product identifier, and the mode/PRF codes embedded in it. No
// general PDS3 grammar is parsed -- that is explicitly out of scope
// (spec.md Sec 1) -- only the handful of `KEY = "VALUE"` lines this
// pipeline actually consumes.
type Label struct {
	ProductID      string
	ScienceFile    string
	AuxiliaryFile  string
	ModeCode       string
	PRFCode        uint16
}

// ReadLabel scans path line by line for ^SCIENCE_TELEMETRY_TABLE,
// ^AUXILIARY_DATA_TABLE, and PRODUCT_ID keys, matching SHERPA.py:main's
// `line.split('=')[-1].strip().replace('"', '')` value extraction. It
// short-circuits once both table pointers are found (mirroring the
// source's `sw==2` break), since the remainder of a PDS3 label is outside
// this reader's scope.
func ReadLabel(ctx *tiledb.Context, configURI string, path string) (Label, error) {
	config, err := loadOrDefaultConfig(configURI)
	if err != nil {
		return Label{}, err
	}
	defer config.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return Label{}, err
	}
	defer vfs.Free()

	handle, err := vfs.Open(path, tiledb.TILEDB_VFS_READ)
	if err != nil {
		return Label{}, err
	}
	defer handle.Close()

	size, err := vfs.FileSize(path)
	if err != nil {
		return Label{}, err
	}

	stream, err := GenericStream(handle, size, true)
	if err != nil {
		return Label{}, err
	}

	var label Label
	found := 0

	scanner := bufio.NewScanner(stream)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.Contains(line, "^SCIENCE_TELEMETRY_TABLE"):
			label.ScienceFile = labelValue(line)
			found++
		case strings.Contains(line, "^AUXILIARY_DATA_TABLE"):
			label.AuxiliaryFile = labelValue(line)
			found++
		case strings.Contains(line, "PRODUCT_ID"):
			label.ProductID = labelValue(line)
		}

		if found == 2 {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return Label{}, err
	}

	if label.ScienceFile == "" || label.AuxiliaryFile == "" {
		return Label{}, ErrLabelMissingTables
	}

	label.ModeCode, label.PRFCode = parseProductID(label.ProductID)

	return label, nil
}

// labelValue extracts the right-hand side of a `KEY = "VALUE"` line.
func labelValue(line string) string {
	parts := strings.Split(line, "=")
	value := parts[len(parts)-1]
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, "\"", "")
	return value
}

// parseProductID splits a product ID of the form
// <tag>_<TransID>_<OSTLine>_<OperMode>_<PRF>[_<Version>] -- the teacher's
// underscore-delimited basename convention (SHERPA_func.py:667-671, where
// bname[0] is a leading literal token, bname[1] is TransID, bname[2] is
// OSTLine, bname[3] is OperMode, and bname[4] is PRF) -- into its
// 4-character mode code and numeric PRF code.
func parseProductID(productID string) (modeCode string, prfCode uint16) {
	fields := strings.Split(productID, "_")
	if len(fields) < 5 {
		return "", 0
	}

	modeCode = fields[3]

	var code uint64
	for _, r := range fields[4] {
		if r < '0' || r > '9' {
			break
		}
		code = code*10 + uint64(r-'0')
	}

	return modeCode, uint16(code)
}

func loadOrDefaultConfig(configURI string) (*tiledb.Config, error) {
	if configURI == "" {
		return tiledb.NewConfig()
	}
	return tiledb.LoadConfig(configURI)
}
