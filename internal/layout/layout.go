// Package layout implements the Layout Engine component of spec §4.5:
// pure geometry, no screen or event state, grounded on the teacher's
// LayoutManager geometry helpers (getTreeWidth, getTermWidth, getTermX,
// ...) in internal/layout/manager.go, generalized from the teacher's fixed
// tree/editor/3-terminal arrangement to the five named panes of spec §2.
package layout

// Rect is a screen rectangle in host-terminal cell coordinates.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Visible is which of the five panes (spec §2) are currently shown. The
// footer is never optional.
type Visible struct {
	FileBrowser bool
	Preview     bool
	Assistant   bool
	Git         bool
	Shell       bool
}

// any reports whether at least one pane is visible.
func (v Visible) any() bool {
	return v.FileBrowser || v.Preview || v.Assistant || v.Git || v.Shell
}

func (v Visible) auxCount() int {
	n := 0
	if v.Assistant {
		n++
	}
	if v.Git {
		n++
	}
	if v.Shell {
		n++
	}
	return n
}

// Sizes holds the configured percentages driving pane widths (spec §6):
// TreeWidthPercent comes from layout.file_browser_width_percent (the
// workbench sets TreeWidthExpandedPercent to twice that value) and
// TermWidthPercent from layout.right_panel_width_percent. Percentages are
// clamped to [10, 90] before use.
type Sizes struct {
	TreeWidthPercent         int
	TreeWidthExpandedPercent int
	TermWidthPercent         int
}

func clampPercent(p int) int {
	if p < 10 {
		return 10
	}
	if p > 90 {
		return 90
	}
	return p
}

// ActivePane identifies which pane currently holds focus, used only to
// decide whether the file browser should claim its expanded width (spec
// §4.5, mirroring the teacher's shouldExpandTree).
type ActivePane int

const (
	PaneNone ActivePane = iota
	PaneFileBrowser
	PanePreview
	PaneAssistant
	PaneGit
	PaneShell
)

// Layout is the computed geometry for every pane plus the always-present
// footer row (spec §4.5: "footer always last row").
type Layout struct {
	FileBrowser Rect
	Preview     Rect
	Assistant   Rect
	Git         Rect
	Shell       Rect
	Footer      Rect
	Fullscreen  bool // true when exactly one pane is visible
}

// Compute lays out total using the given visibility, configured
// percentages, and currently active pane (spec §4.5).
func Compute(total Rect, v Visible, sizes Sizes, active ActivePane) Layout {
	var l Layout
	l.Footer = Rect{X: total.X, Y: total.Y + total.Height - 1, Width: total.Width, Height: 1}
	body := Rect{X: total.X, Y: total.Y, Width: total.Width, Height: total.Height - 1}
	if body.Height < 0 {
		body.Height = 0
	}

	if !v.any() {
		l.Fullscreen = false
		return l
	}

	if body.Empty() {
		return l
	}

	treePct := clampPercent(sizes.TreeWidthPercent)
	treeExpandedPct := clampPercent(sizes.TreeWidthExpandedPercent)
	termPct := clampPercent(sizes.TermWidthPercent)

	treeVisible := v.FileBrowser
	expandTree := treeVisible && shouldExpandTree(v, active)

	treeWidth := 0
	if treeVisible {
		pct := treePct
		if expandTree {
			pct = treeExpandedPct
		}
		treeWidth = body.Width * pct / 100
	}

	auxCount := v.auxCount()
	totalAuxSpace := 0
	if auxCount > 0 {
		if v.Preview {
			totalAuxSpace = body.Width * termPct / 100
		} else {
			totalAuxSpace = body.Width - treeWidth
		}
		if totalAuxSpace < 0 {
			totalAuxSpace = 0
		}
		if totalAuxSpace > body.Width-treeWidth {
			totalAuxSpace = body.Width - treeWidth
		}
	}

	singleAuxWidth := 0
	if auxCount > 0 {
		singleAuxWidth = totalAuxSpace / auxCount
	}

	previewWidth := 0
	if v.Preview {
		if auxCount > 0 {
			previewWidth = body.Width - treeWidth - totalAuxSpace
		} else {
			previewWidth = body.Width - treeWidth
		}
		if previewWidth < 0 {
			previewWidth = 0
		}
	}

	x := body.X
	if treeVisible {
		l.FileBrowser = Rect{X: x, Y: body.Y, Width: treeWidth, Height: body.Height}
		x += treeWidth
	}
	if v.Preview {
		l.Preview = Rect{X: x, Y: body.Y, Width: previewWidth, Height: body.Height}
		x += previewWidth
	}
	if v.Assistant {
		l.Assistant = Rect{X: x, Y: body.Y, Width: singleAuxWidth, Height: body.Height}
		x += singleAuxWidth
	}
	if v.Git {
		l.Git = Rect{X: x, Y: body.Y, Width: singleAuxWidth, Height: body.Height}
		x += singleAuxWidth
	}
	if v.Shell {
		l.Shell = Rect{X: x, Y: body.Y, Width: singleAuxWidth, Height: body.Height}
		x += singleAuxWidth
	}

	l.Fullscreen = isFullscreen(v)
	return l
}

// shouldExpandTree mirrors the teacher's shouldExpandTree: the file
// browser claims its wide layout while focused, or whenever it would
// otherwise be sharing the screen with exactly one other pane.
func shouldExpandTree(v Visible, active ActivePane) bool {
	if active == PaneFileBrowser {
		return true
	}
	auxCount := v.auxCount()
	if v.Preview && auxCount == 0 {
		return true
	}
	if !v.Preview && auxCount == 1 {
		return true
	}
	return false
}

// isFullscreen reports whether exactly one pane is visible, in which case
// the event loop may skip borders entirely (spec §4.5 fullscreen mode).
func isFullscreen(v Visible) bool {
	count := 0
	for _, b := range []bool{v.FileBrowser, v.Preview, v.Assistant, v.Git, v.Shell} {
		if b {
			count++
		}
	}
	return count == 1
}

// Inset shrinks r by one cell on every side for the pane's 1-cell border
// (spec §4.5). Panes narrower or shorter than 2 cells collapse to empty.
func Inset(r Rect) Rect {
	if r.Width < 2 || r.Height < 2 {
		return Rect{X: r.X, Y: r.Y}
	}
	return Rect{X: r.X + 1, Y: r.Y + 1, Width: r.Width - 2, Height: r.Height - 2}
}
