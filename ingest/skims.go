// SPDX-License-Identifier: MIT

package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/skim"
)

// LoadSkims reads every skim under dir into a Bank.
//
// Each subdirectory is one source. A name ending in "_PK" or "_OP" holds the
// fields of that period ("drive_PK", "DAT_CR_OP"); any other name holds
// period-independent fields ("Walk"). Every "<field>.csv" inside becomes one
// field, named by the file name without its extension.
func LoadSkims(dir string) (*skim.Bank, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadSkims: %w", err)
	}
	b := skim.NewBank()
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		source, period := splitSourceDir(e.Name())
		files, err := filepath.Glob(filepath.Join(dir, e.Name(), "*.csv"))
		if err != nil {
			return nil, fmt.Errorf("LoadSkims: %w", err)
		}
		sort.Strings(files)
		for _, path := range files {
			m, err := ReadMatrixFile(path)
			if err != nil {
				return nil, fmt.Errorf("LoadSkims: %w", err)
			}
			field := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if err = b.Put(source, period, field, m); err != nil {
				return nil, fmt.Errorf("LoadSkims %s: %w", path, err)
			}
		}
	}
	if b.Len() == 0 {
		return nil, fmt.Errorf("LoadSkims %s: %w", dir, ErrEmptyFile)
	}
	return b, nil
}

func splitSourceDir(name string) (string, mode.Period) {
	for _, p := range []mode.Period{mode.Peak, mode.OffPeak} {
		if source, ok := strings.CutSuffix(name, "_"+string(p)); ok && source != "" {
			return source, p
		}
	}
	return name, ""
}
