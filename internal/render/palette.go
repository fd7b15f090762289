package render

import "sort"

var palettes = map[string][]rune{
	"default": []rune(" .:-=+*#%@"),
	"blocks":  []rune(" ░▒▓█"),
	"dots":    []rune(" ·∙•●"),
	"lines":   []rune(" `.-=+*/|#"),
}

// Palette returns the glyph ramp for name, from least to most ink.
func Palette(name string) []rune {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["default"]
}

// PaletteNames returns all palette identifiers.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
