package workbench

import (
	"github.com/eqms/claude-workbench/internal/config"
	"github.com/eqms/claude-workbench/internal/focus"
	"github.com/eqms/claude-workbench/internal/layout"
	"github.com/eqms/claude-workbench/internal/screen"
	"github.com/eqms/claude-workbench/internal/vtscreen"
	"github.com/micro-editor/tcell/v2"
)

var (
	borderStyle   = config.DefStyle.Foreground(tcell.ColorGray)
	focusedBorder = config.DefStyle.Foreground(tcell.ColorWhite)
	footerStyle   = config.DefStyle.Foreground(tcell.Color252)
	dirStyle      = config.DefStyle.Foreground(tcell.Color33).Bold(true)
	fileStyle     = config.DefStyle.Foreground(tcell.Color252)
	cursorStyle   = config.DefStyle.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// render is step 5 of the event loop (spec §4.9): call each visible
// region's render hook, paint the footer, commit the frame.
func (wb *Workbench) render() {
	screen.Lock()
	defer screen.Unlock()

	wb.clearAll()

	if !wb.rects.FileBrowser.Empty() {
		wb.drawBorder(wb.rects.FileBrowser, wb.active == focus.PaneFileBrowser)
		wb.renderFileBrowser(layout.Inset(wb.rects.FileBrowser))
	}
	if !wb.rects.Preview.Empty() {
		wb.drawBorder(wb.rects.Preview, wb.active == focus.PanePreview)
		wb.renderPreview(layout.Inset(wb.rects.Preview))
	}
	wb.renderTerminalPane(focus.PaneAssistant, wb.rects.Assistant)
	wb.renderTerminalPane(focus.PaneGit, wb.rects.Git)
	wb.renderTerminalPane(focus.PaneShell, wb.rects.Shell)

	wb.renderFooter()

	screen.Screen.Show()
}

func (wb *Workbench) clearAll() {
	for y := 0; y < wb.h; y++ {
		for x := 0; x < wb.w; x++ {
			screen.Screen.SetContent(x, y, ' ', nil, config.DefStyle)
		}
	}
}

func (wb *Workbench) drawBorder(r layout.Rect, focused bool) {
	st := borderStyle
	if focused {
		st = focusedBorder
	}
	if r.Width < 2 || r.Height < 2 {
		return
	}
	for x := r.X; x < r.X+r.Width; x++ {
		screen.Screen.SetContent(x, r.Y, tcell.RuneHLine, nil, st)
		screen.Screen.SetContent(x, r.Y+r.Height-1, tcell.RuneHLine, nil, st)
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		screen.Screen.SetContent(r.X, y, tcell.RuneVLine, nil, st)
		screen.Screen.SetContent(r.X+r.Width-1, y, tcell.RuneVLine, nil, st)
	}
	screen.Screen.SetContent(r.X, r.Y, tcell.RuneULCorner, nil, st)
	screen.Screen.SetContent(r.X+r.Width-1, r.Y, tcell.RuneURCorner, nil, st)
	screen.Screen.SetContent(r.X, r.Y+r.Height-1, tcell.RuneLLCorner, nil, st)
	screen.Screen.SetContent(r.X+r.Width-1, r.Y+r.Height-1, tcell.RuneLRCorner, nil, st)
}

func (wb *Workbench) renderFileBrowser(r layout.Rect) {
	entries := wb.browser.Entries()
	cursor := wb.browser.Cursor()
	for i := 0; i < r.Height && i < len(entries); i++ {
		e := entries[i]
		st := fileStyle
		if e.IsDir {
			st = dirStyle
		}
		if i == cursor {
			st = cursorStyle
		}
		name := e.Name
		if e.IsDir {
			name += "/"
		}
		wb.writeLine(r.X, r.Y+i, r.Width, name, st)
	}
}

func (wb *Workbench) renderPreview(r layout.Rect) {
	lines := wb.prev.Lines(r.Height)
	for i, ln := range lines {
		st := config.DefStyle
		wb.writeLine(r.X, r.Y+i, r.Width, ln.Text, st)
	}
}

func (wb *Workbench) renderTerminalPane(pane focus.Pane, rect layout.Rect) {
	if rect.Empty() {
		return
	}
	p := wb.panes[pane]
	wb.drawBorder(rect, wb.active == pane)
	interior := layout.Inset(rect)
	if p == nil || interior.Empty() {
		return
	}

	rows := p.Screen().VisibleRows(p.Screen().Offset(), interior.Height)
	for y, row := range rows {
		for x, cell := range row {
			if x >= interior.Width {
				break
			}
			screen.Screen.SetContent(interior.X+x, interior.Y+y, []rune(cell.Text())[0], nil, cellStyle(cell))
		}
	}

	if wb.active == pane && p.Screen().Offset() == 0 {
		cursorRow, cursorCol, visible := p.Screen().Cursor()
		if visible && cursorRow < interior.Height && cursorCol < interior.Width {
			screen.ShowFakeCursor(interior.X+cursorCol, interior.Y+cursorRow)
		}
	}
}

func cellStyle(c vtscreen.Cell) tcell.Style {
	st := config.DefStyle
	if c.FG != vtscreen.DefaultColor {
		if c.FG.IsRGB() {
			r, g, b := c.FG.Components()
			st = st.Foreground(config.RGBToColor(int(r), int(g), int(b)))
		} else {
			st = st.Foreground(config.GetColor256(int(c.FG.PaletteIndex())))
		}
	}
	if c.BG != vtscreen.DefaultColor {
		if c.BG.IsRGB() {
			r, g, b := c.BG.Components()
			st = st.Background(config.RGBToColor(int(r), int(g), int(b)))
		} else {
			st = st.Background(config.GetColor256(int(c.BG.PaletteIndex())))
		}
	}
	if c.Attrs&vtscreen.AttrBold != 0 {
		st = st.Bold(true)
	}
	if c.Attrs&vtscreen.AttrUnderline != 0 {
		st = st.Underline(true)
	}
	if c.Attrs&vtscreen.AttrReverse != 0 {
		st = st.Reverse(true)
	}
	if c.Attrs&vtscreen.AttrDim != 0 {
		st = st.Dim(true)
	}
	if c.Attrs&vtscreen.AttrBlink != 0 {
		st = st.Blink(true)
	}
	return st
}

func (wb *Workbench) renderFooter() {
	text := wb.flashes.Current()
	if text == "" {
		text = footerHint(wb.active)
	}
	wb.writeLine(wb.rects.Footer.X, wb.rects.Footer.Y, wb.rects.Footer.Width, text, footerStyle)
}

func footerHint(active focus.Pane) string {
	switch active {
	case focus.PaneFileBrowser:
		return " F1 Files  F2 Preview  F3 Assistant  F4 Git  F5 Shell  Ctrl+Q Quit"
	default:
		return " Ctrl+S Select  Ctrl+Q Quit"
	}
}

func (wb *Workbench) writeLine(x, y, width int, text string, st tcell.Style) {
	i := 0
	for _, r := range text {
		if i >= width {
			break
		}
		screen.Screen.SetContent(x+i, y, r, nil, st)
		i++
	}
}
