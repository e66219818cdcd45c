package locator

import "displaywarp/internal/winapi"

// Scoring policy for by-name candidate selection. The constants are tuned
// policy, not load-bearing exact values: the goal is to separate the real
// application window from the loaders, splash screens and overlay tool
// windows a game launcher sprays while starting up.
const (
	// Splash and loader windows tend to be small; anything below this is
	// never the main window.
	minCandidateWidth  = 160
	minCandidateHeight = 120

	// Loader windows often carry no title.
	titleBonus = 20

	// Overlays and toasts are flagged WS_EX_TOOLWINDOW.
	toolWindowPenalty = -50

	// The real application window is usually the largest on screen.
	areaDivisor  = 8000
	areaBonusCap = 150
)

// Score rates a candidate window. ok is false when the window is
// disqualified outright (too small) or when the total is not positive, in
// which case the caller keeps polling.
func Score(w winapi.WindowInfo) (score int, ok bool) {
	if w.Rect.Width() < minCandidateWidth || w.Rect.Height() < minCandidateHeight {
		return 0, false
	}

	if w.Title != "" {
		score += titleBonus
	}
	if w.ToolWindow {
		score += toolWindowPenalty
	}

	area := int(w.Rect.Width()) * int(w.Rect.Height())
	if area > 0 {
		bonus := area / areaDivisor
		if bonus > areaBonusCap {
			bonus = areaBonusCap
		}
		score += bonus
	}

	return score, score > 0
}
