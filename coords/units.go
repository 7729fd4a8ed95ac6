package coords

const (
	// MMPerPt is the length of one PostScript point in millimeters.
	MMPerPt = 0.352778
	MMPerIn = 25.4
	PtPerIn = 72.0
)

func PtToMM(pt float64) float64 { return pt * MMPerPt }
func MMToPt(mm float64) float64 { return mm / MMPerPt }
func InToMM(in float64) float64 { return in * MMPerIn }

// PxToMM converts device pixels at dpi to millimeters.
func PxToMM(px, dpi float64) float64 { return PtToMM(px * PtPerIn / dpi) }

// MMToPx converts millimeters to device pixels at dpi.
func MMToPx(mm, dpi float64) float64 { return MMToPt(mm) * dpi / PtPerIn }
