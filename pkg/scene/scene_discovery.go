package scene

import (
	"fmt"
	"sort"
	"strings"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Width       int    `json:"width"`  // Suggested image width
	Height      int    `json:"height"` // Suggested image height

	build func() (*Scene, error)
}

var builtinScenes = []SceneInfo{
	{
		ID:          "cornell",
		DisplayName: "Cornell Box",
		Description: "Classic box with a ceiling light, mirror and glass spheres",
		Width:       400,
		Height:      400,
		build:       NewCornellScene,
	},
	{
		ID:          "spheres",
		DisplayName: "Spheres",
		Description: "Matte, glass and glossy spheres on a checkered ground",
		Width:       480,
		Height:      270,
		build:       NewSphereScene,
	},
	{
		ID:          "caustic",
		DisplayName: "Caustics",
		Description: "Glass objects focusing a small lamp onto the floor",
		Width:       400,
		Height:      300,
		build:       NewCausticScene,
	},
	{
		ID:          "sphere-grid",
		DisplayName: "Sphere Grid",
		Description: "Glossy spheres varying in hue and chroma under a warm sun",
		Width:       480,
		Height:      270,
		build:       NewSphereGridScene,
	},
}

// ListScenes returns the built-in scenes sorted by id
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtinScenes))
	copy(scenes, builtinScenes)
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// Names returns the ids of the built-in scenes in sorted order
func Names() []string {
	scenes := ListScenes()
	names := make([]string, len(scenes))
	for i, info := range scenes {
		names[i] = info.ID
	}
	return names
}

// Lookup returns the description of a built-in scene
func Lookup(id string) (SceneInfo, error) {
	for _, info := range builtinScenes {
		if info.ID == id {
			return info, nil
		}
	}
	return SceneInfo{}, fmt.Errorf("unknown scene %q (available: %s)", id, strings.Join(Names(), ", "))
}

// New builds a preprocessed built-in scene by id
func New(id string) (*Scene, error) {
	info, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	s, err := info.build()
	if err != nil {
		return nil, fmt.Errorf("build scene %q: %w", id, err)
	}
	if err := s.Preprocess(); err != nil {
		return nil, fmt.Errorf("preprocess scene %q: %w", id, err)
	}
	return s, nil
}
