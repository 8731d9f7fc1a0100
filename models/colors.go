package models

// NoteColor is one entry of the fixed note palette.
type NoteColor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Light string `json:"light"`
	Dark  string `json:"dark"`
}

// DefaultColor is the palette id applied when none is given.
const DefaultColor = "default"

// NoteColors is the closed set of colors a note may carry.
var NoteColors = []NoteColor{
	{ID: "default", Name: "Default", Light: "#ffffff", Dark: "#202124"},
	{ID: "red", Name: "Red", Light: "#f28b82", Dark: "#5c2b29"},
	{ID: "orange", Name: "Orange", Light: "#fbbc04", Dark: "#614a19"},
	{ID: "yellow", Name: "Yellow", Light: "#fff475", Dark: "#635d19"},
	{ID: "green", Name: "Green", Light: "#ccff90", Dark: "#345920"},
	{ID: "teal", Name: "Teal", Light: "#a7ffeb", Dark: "#16504b"},
	{ID: "blue", Name: "Blue", Light: "#cbf0f8", Dark: "#2d555e"},
	{ID: "darkblue", Name: "Dark Blue", Light: "#aecbfa", Dark: "#1e3a5f"},
	{ID: "purple", Name: "Purple", Light: "#d7aefb", Dark: "#42275e"},
	{ID: "pink", Name: "Pink", Light: "#fdcfe8", Dark: "#5b2245"},
	{ID: "brown", Name: "Brown", Light: "#e6c9a8", Dark: "#442f19"},
	{ID: "gray", Name: "Gray", Light: "#e8eaed", Dark: "#3c3f43"},
}

// IsValidColor reports whether id names a palette entry.
func IsValidColor(id string) bool {
	for _, c := range NoteColors {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ColorHex resolves a palette id to its hex value, falling back to the default entry
// for unknown ids.
func ColorHex(id string, dark bool) string {
	color := NoteColors[0]
	for _, c := range NoteColors {
		if c.ID == id {
			color = c
			break
		}
	}
	if dark {
		return color.Dark
	}
	return color.Light
}
