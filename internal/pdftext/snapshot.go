package pdftext

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// Snapshot renders one page of the PDF to PNG bytes via pdftoppm. The DPI is
// derived from the viewport scale so the image lines up with extracted
// coordinates (72 dpi equals scale 1.0). Returns an error when pdftoppm is
// not installed; callers degrade to a blank page background.
func Snapshot(ctx context.Context, path string, pageNum int, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1.5
	}
	dpi := strconv.Itoa(int(72 * scale))
	page := strconv.Itoa(pageNum)

	// No output root argument means pdftoppm writes to stdout.
	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-png",
		"-r", dpi,
		"-f", page,
		"-l", page,
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("pdftoppm: empty output for page %d", pageNum)
	}
	return out, nil
}
