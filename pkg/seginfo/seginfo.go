// Package seginfo names and discovers IgniteDB's numbered data files.
//
// Filename format: {file_id:09}.data
//
// Where file_id is a zero-padded 9-digit decimal number (000000001.data,
// 000000002.data, ...). Zero-padding keeps lexicographic and numeric sort
// order identical, which recovery and merge both rely on.
package seginfo

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ignitedb/ignite/pkg/filesys"
)

// DataFileExt is the fixed extension every active or older data file carries.
const DataFileExt = ".data"

// idWidth is the zero-padded width of the decimal file id component.
const idWidth = 9

// GenerateDataFileName formats id as a data file name: {file_id:09}.data.
func GenerateDataFileName(id uint32) string {
	return fmt.Sprintf("%0*d%s", idWidth, id, DataFileExt)
}

// ParseDataFileID extracts the file id from a data file name or full path.
// It returns an error if the name isn't a well-formed {file_id:09}.data name.
func ParseDataFileID(nameOrPath string) (uint32, error) {
	_, filename := filepath.Split(nameOrPath)

	if !strings.HasSuffix(filename, DataFileExt) {
		return 0, fmt.Errorf("%s: missing %s extension", filename, DataFileExt)
	}

	idStr := strings.TrimSuffix(filename, DataFileExt)
	if len(idStr) != idWidth {
		return 0, fmt.Errorf("%s: expected a %d-digit file id, got %q", filename, idWidth, idStr)
	}

	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to parse file id: %w", filename, err)
	}

	return uint32(id), nil
}

// ListDataFileIDs scans dataDir for files matching {file_id:09}.data and
// returns their ids sorted ascending. Files that don't match the naming
// convention are ignored, not an error; recovery, which builds on this
// listing, ignores them as well.
func ListDataFileIDs(dataDir string) ([]uint32, error) {
	pattern := filepath.Join(dataDir, "*"+DataFileExt)

	matches, err := filesys.ReadDir(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", dataDir, err)
	}

	ids := make([]uint32, 0, len(matches))
	for _, m := range matches {
		id, err := ParseDataFileID(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	slices.Sort(ids)
	return ids, nil
}

// DataFilePath joins dataDir with the formatted name for id.
func DataFilePath(dataDir string, id uint32) string {
	return filepath.Join(dataDir, GenerateDataFileName(id))
}
