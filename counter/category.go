package counter

import (
	"fmt"
	"strings"
)

// Category is the subsystem a counter belongs to.
type Category int

const (
	CATEGORY_AI Category = iota
	CATEGORY_ANIMATION
	CATEGORY_AUDIO
	CATEGORY_GUI
	CATEGORY_INPUT
	CATEGORY_INTERNAL
	CATEGORY_LIGHTING
	CATEGORY_LOADING
	CATEGORY_MEMORY
	CATEGORY_NETWORK
	CATEGORY_PARTICLES
	CATEGORY_PHYSICS
	CATEGORY_RENDER
	CATEGORY_SCRIPTS
	CATEGORY_VIDEO
	CATEGORY_VIRTUAL_TEXTURING
	CATEGORY_VR
	CATEGORY_FILE_IO

	NUM_CATEGORIES = int(iota)
)

var categoryNames = [NUM_CATEGORIES]string{
	CATEGORY_AI:                "AI",
	CATEGORY_ANIMATION:         "Animation",
	CATEGORY_AUDIO:             "Audio",
	CATEGORY_GUI:               "Gui",
	CATEGORY_INPUT:             "Input",
	CATEGORY_INTERNAL:          "Internal",
	CATEGORY_LIGHTING:          "Lighting",
	CATEGORY_LOADING:           "Loading",
	CATEGORY_MEMORY:            "Memory",
	CATEGORY_NETWORK:           "Network",
	CATEGORY_PARTICLES:         "Particles",
	CATEGORY_PHYSICS:           "Physics",
	CATEGORY_RENDER:            "Render",
	CATEGORY_SCRIPTS:           "Scripts",
	CATEGORY_VIDEO:             "Video",
	CATEGORY_VIRTUAL_TEXTURING: "VirtualTexturing",
	CATEGORY_VR:                "VR",
	CATEGORY_FILE_IO:           "FileIO",
}

func (c Category) Valid() bool {
	return c >= 0 && int(c) < NUM_CATEGORIES
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory is case insensitive,
// unknown names resolve to [CATEGORY_FILE_IO] along with an error.
func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return Category(i), nil
		}
	}
	return CATEGORY_FILE_IO, fmt.Errorf("unknown category %q", name)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category: %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
