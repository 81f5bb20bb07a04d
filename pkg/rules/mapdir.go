package rules

import "strings"

// RelDirToMapDir converts a repository-relative directory path to the
// slash-bounded form used as a DirectoryMap key ("/" for the root).
func RelDirToMapDir(relDir string) string {
	if relDir == "" || relDir == "/" {
		return "/"
	}

	if !strings.HasPrefix(relDir, "/") {
		relDir = "/" + relDir
	}
	if !strings.HasSuffix(relDir, "/") {
		relDir = relDir + "/"
	}

	return relDir
}

// MapDirToRelDir converts a slash-bounded DirectoryMap key back to a
// repository-relative directory path ("" for the root).
func MapDirToRelDir(mapDir string) string {
	if mapDir == "" || mapDir == "/" {
		return ""
	}

	return strings.Trim(mapDir, "/")
}
