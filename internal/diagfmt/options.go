package diagfmt

// PathMode selects how file paths are shown.
type PathMode uint8

const (
	// PathModeAuto keeps short paths and shortens long absolute ones to
	// their base name.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative // relative to BaseDir
	PathModeBasename
)

type PrettyOpts struct {
	Color    bool
	Context  int8 // source lines shown above and below the primary line
	PathMode PathMode
	BaseDir  string
	// Width truncates source lines; 0 means unlimited.
	Width     uint8
	ShowNotes bool
}

type JSONOpts struct {
	IncludePositions bool // add line/col next to byte offsets
	PathMode         PathMode
	BaseDir          string
	Max              int // 0 means all
	IncludeNotes     bool
}
