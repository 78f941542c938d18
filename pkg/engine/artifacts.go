package engine

import (
	"os"
	"path/filepath"
)

// FindShapefile locates the shapefile the engine wrote into dir.
// GGOutlier generates exactly one shp file per input; if more than one
// is present the first in listing order is returned. The boolean is
// false when none exists.
func FindShapefile(dir string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.shp"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// FindLog locates the engine's fixed-name log file in dir.
// The boolean is false when it does not exist.
func FindLog(dir string) (string, bool) {
	path := filepath.Join(dir, LogFileName)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
