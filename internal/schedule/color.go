package schedule

// DefaultColor is applied when a lesson carries no color tag or a
// tag outside the recognized set.
const DefaultColor = "blue"

// colorClasses maps recognized color tags to the presentation classes
// the web client renders.  The class strings match the shipped UI so
// cached grids stay byte-compatible with what the frontend expects.
var colorClasses = map[string]string{
	"blue":   "bg-blue-100 border-blue-300 hover:bg-blue-200",
	"green":  "bg-green-100 border-green-300 hover:bg-green-200",
	"yellow": "bg-yellow-100 border-yellow-300 hover:bg-yellow-200",
	"red":    "bg-red-100 border-red-300 hover:bg-red-200",
	"purple": "bg-purple-100 border-purple-300 hover:bg-purple-200",
}

// NormalizeColor returns the tag itself when recognized and
// DefaultColor otherwise.  It is total: it never fails, whatever the
// stored value is.
func NormalizeColor(tag string) string {
	if _, ok := colorClasses[tag]; ok {
		return tag
	}
	return DefaultColor
}

// Class resolves a color tag to its presentation class, falling back
// to the blue style for absent or unrecognized tags.
func Class(tag string) string {
	return colorClasses[NormalizeColor(tag)]
}
