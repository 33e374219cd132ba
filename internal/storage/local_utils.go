package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// localStorageFullpath maps bucket/key onto baseDir and refuses keys that
// would climb out of it.
func localStorageFullpath(baseDir, bucket, key string) (string, error) {
	full := filepath.Join(baseDir, bucket, filepath.FromSlash(key))
	rel, err := filepath.Rel(baseDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object path %s/%s", bucket, key)
	}
	return full, nil
}
