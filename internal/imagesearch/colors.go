package imagesearch

// Color is a background colour filter offered to the UI.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

var supportedColors = []Color{
	{"red", "#dc143c"},
	{"orange", "#ff8c00"},
	{"yellow", "#ffd700"},
	{"green", "#32cd32"},
	{"turquoise", "#40e0d0"},
	{"blue", "#4169e1"},
	{"violet", "#8a2be2"},
	{"pink", "#ff69b4"},
	{"brown", "#8b4513"},
	{"black", "#2d2d2d"},
	{"gray", "#808080"},
	{"white", "#f5f5f5"},
}

// Colors lists the colours Pexels can filter on.
func Colors() []Color {
	return append([]Color(nil), supportedColors...)
}

func IsSupportedColor(name string) bool {
	for _, c := range supportedColors {
		if c.Name == name {
			return true
		}
	}
	return false
}
