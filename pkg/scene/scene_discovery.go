package scene

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-raytransport/pkg/config"
	"github.com/df07/go-raytransport/pkg/core"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	FilePath    string `json:"filePath"`
	Meshes      int    `json:"meshes"`
	Spheres     int    `json:"spheres"`
	Quads       int    `json:"quads"`
	Discs       int    `json:"discs"`
	Boxes       int    `json:"boxes"`
	Media       int    `json:"media"`
}

// sceneExtensions are the file extensions scanned for scene descriptions
var sceneExtensions = []string{".json5", ".json"}

// ListScenes scans dir for scene description files and returns their metadata sorted by name.
// Files that fail to parse are skipped with a warning.
func ListScenes(dir string, logger core.Logger) ([]SceneInfo, error) {
	if logger == nil {
		logger = core.NopLogger()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan scenes directory")
	}

	var scenes []SceneInfo
	for _, entry := range entries {
		if entry.IsDir() || !isSceneFile(entry.Name()) {
			continue
		}
		filePath := filepath.Join(dir, entry.Name())
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			logger.Warnf("failed to parse metadata for %s: %v", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	// Sort scenes by name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseSceneMetadata reads a scene file without building it
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	var desc Description
	if err := config.ReadSceneFile(filePath, &desc); err != nil {
		return SceneInfo{}, err
	}

	info := SceneInfo{
		ID:          nameWithoutExt,
		Name:        desc.Name,
		Description: desc.Description,
		FilePath:    filePath,
		Meshes:      len(desc.Meshes),
		Spheres:     len(desc.Spheres),
		Quads:       len(desc.Quads),
		Discs:       len(desc.Discs),
		Boxes:       len(desc.Boxes),
		Media:       len(desc.Media),
	}
	if info.Name == "" {
		info.Name = titleCase(nameWithoutExt)
	}
	return info, nil
}

func isSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range sceneExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
