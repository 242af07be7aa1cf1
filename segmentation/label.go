package segmentation

// Label is the classification of a single point within its frame.
type Label int

const (
	// LabelUnset marks a point the sweep has not reached or could not resolve.
	LabelUnset Label = iota
	// LabelGround marks a point on the drivable ground surface.
	LabelGround
	// LabelNonGround marks an obstacle point.
	LabelNonGround
	// LabelFollow is a transient state meaning "inherit the previous
	// point's resolved label". It survives the sweep only for a point whose
	// predecessor had no resolved label to inherit.
	LabelFollow
)

func (l Label) String() string {
	switch l {
	case LabelUnset:
		return "unset"
	case LabelGround:
		return "ground"
	case LabelNonGround:
		return "non-ground"
	case LabelFollow:
		return "follow"
	default:
		return "unknown"
	}
}
