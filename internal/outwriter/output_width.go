package outwriter

import (
	"os"

	"github.com/huangsam/hubtrend/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableIDWidth calculates the maximum width for model identifiers in
// table output based on terminal width.
func GetMaxTableIDWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank, Downloads, Likes, Task and Library columns with borders/padding
	baseWidth := 75

	available := termWidth - baseWidth
	if available < 20 {
		return 20
	}
	if available > 60 {
		return 60
	}
	return available
}
