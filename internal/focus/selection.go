package focus

import (
	"regexp"
	"strings"

	"github.com/eqms/claude-workbench/internal/vtscreen"
	"github.com/micro-editor/tcell/v2"
)

// selectionState is the Selection Controller's live state while a
// selection is open on one terminal pane (spec §4.7).
type selectionState struct {
	pane Pane
	sel  vtscreen.Selection
	cols int
}

// enterSelection seeds a Selection anchored at the bottom visible row of
// pane's terminal, in the VT Screen's stable absolute coordinate space
// (spec §4.7: "seeds a Selection anchored at the bottom visible row").
func (r *Router) enterSelection(pane Pane) {
	term := r.host.Terminal(pane)
	if term == nil {
		return
	}
	screen := term.Screen()
	rows, cols := screen.Size()
	backLen := screen.ScrollbackLen()
	offset := screen.Offset()
	bottomRow := backLen - offset + rows - 1

	pos := vtscreen.Pos{Row: bottomRow, Col: 0}
	r.sel = &selectionState{
		pane: pane,
		sel:  vtscreen.Selection{Anchor: pos, Active: pos},
		cols: cols,
	}
}

func (r *Router) handleSelectionKey(ev *tcell.EventKey) bool {
	s := r.sel
	term := r.host.Terminal(s.pane)
	if term == nil {
		r.sel = nil
		return true
	}

	step := 1
	if ev.Modifiers()&tcell.ModShift != 0 {
		step = 5
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		r.sel = nil
		return true
	case tcell.KeyCtrlC:
		text := term.Screen().ExtractRange(s.sel)
		r.host.WriteClipboard(text)
		r.sel = nil
		return true
	case tcell.KeyEnter:
		r.sendSelectionToAssistant(term)
		return true
	case tcell.KeyUp:
		s.sel.Active.Row -= step
		r.clampSelection(s)
		return true
	case tcell.KeyDown:
		s.sel.Active.Row += step
		r.clampSelection(s)
		return true
	case tcell.KeyLeft:
		s.sel.Active.Col -= step
		r.clampSelection(s)
		return true
	case tcell.KeyRight:
		s.sel.Active.Col += step
		r.clampSelection(s)
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'j':
			s.sel.Active.Row += step
			r.clampSelection(s)
			return true
		case 'k':
			s.sel.Active.Row -= step
			r.clampSelection(s)
			return true
		case 'h':
			s.sel.Active.Col -= step
			r.clampSelection(s)
			return true
		case 'l':
			s.sel.Active.Col += step
			r.clampSelection(s)
			return true
		case 'g':
			s.sel.Active.Row = 0
			s.sel.Active.Col = 0
			return true
		case 'G':
			rows, _ := term.Screen().Size()
			s.sel.Active.Row = term.Screen().ScrollbackLen() + rows - 1
			s.sel.Active.Col = s.cols
			return true
		case 'y':
			r.sendSelectionToAssistant(term)
			return true
		}
	}
	return true
}

func (r *Router) clampSelection(s *selectionState) {
	if s.sel.Active.Row < 0 {
		s.sel.Active.Row = 0
	}
	if s.sel.Active.Col < 0 {
		s.sel.Active.Col = 0
	}
	if s.sel.Active.Col > s.cols {
		s.sel.Active.Col = s.cols
	}
}

func (r *Router) sendSelectionToAssistant(term Terminal) {
	text := term.Screen().ExtractRange(r.sel.sel)
	assistant := r.host.Terminal(PaneAssistant)
	if assistant != nil {
		assistant.WriteInput([]byte(filterForAssistant(text)))
	}
	r.sel = nil
}

var (
	shellPromptRe  = regexp.MustCompile(`^\s*[\w.\-]+@[\w.\-]+[:~][^\s]*[$#>](\s.*)?$|^\s*[$#%>]{1,3}\s*$`)
	dirListingRe   = regexp.MustCompile(`^[d\-][rwx\-]{9}[.+]?\s`)
	totalLineRe    = regexp.MustCompile(`^total\s+\d+\s*$`)
	blankRunRe     = regexp.MustCompile(`\n{3,}`)
	pythonHintRe   = regexp.MustCompile(`^\s*(def |class |import |from .* import|@\w+)`)
	rustHintRe     = regexp.MustCompile(`^\s*(fn |let |use |impl |pub )`)
	jsHintRe       = regexp.MustCompile(`^\s*(function |const |let |import .* from|export )`)
	bashHintRe     = regexp.MustCompile(`^\s*(#!/bin/(ba)?sh|if \[|fi$|echo )`)
	xmlHintRe      = regexp.MustCompile(`^\s*<[a-zA-Z!/?]`)
)

// filterForAssistant implements spec §4.7's send-to-assistant filter.
// Never applied to raw clipboard copies (spec: "Intelligent filtering is
// not applied when copying to the system clipboard").
func filterForAssistant(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, ln := range lines {
		if shellPromptRe.MatchString(ln) {
			continue
		}
		if dirListingRe.MatchString(ln) || totalLineRe.MatchString(ln) {
			continue
		}
		kept = append(kept, ln)
	}
	joined := strings.Join(kept, "\n")
	joined = blankRunRe.ReplaceAllString(joined, "\n\n\n")

	if tag := detectLanguageFence(kept); tag != "" {
		joined = "```" + tag + "\n" + joined + "\n```"
	}
	if !strings.HasSuffix(joined, "\n") {
		joined += "\n"
	}
	return joined
}

// detectLanguageFence returns a fence tag when a majority of non-empty
// lines look like a recognized language, else "".
func detectLanguageFence(lines []string) string {
	counts := map[string]int{"python": 0, "rust": 0, "javascript": 0, "bash": 0, "xml": 0}
	nonEmpty := 0
	for _, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		nonEmpty++
		switch {
		case pythonHintRe.MatchString(ln):
			counts["python"]++
		case rustHintRe.MatchString(ln):
			counts["rust"]++
		case jsHintRe.MatchString(ln):
			counts["javascript"]++
		case bashHintRe.MatchString(ln):
			counts["bash"]++
		case xmlHintRe.MatchString(ln):
			counts["xml"]++
		}
	}
	if nonEmpty == 0 {
		return ""
	}
	best, bestCount := "", 0
	for tag, c := range counts {
		if c > bestCount {
			best, bestCount = tag, c
		}
	}
	if float64(bestCount) > float64(nonEmpty)/2 {
		return best
	}
	return ""
}
