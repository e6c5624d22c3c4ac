// Package dirsync implements the Directory Sync component of spec §4.8:
// an observer that notices the file browser's current directory changing
// and pushes a `cd` command (or a full restart, for the Git TUI) into the
// affected Pane Terminals on the next event-loop tick. Grounded on the
// teacher's drag-drop path-quoting scheme referenced throughout
// internal/terminal and internal/filebrowser, generalized into its own
// observer instead of being inlined at each call site.
package dirsync

import "strings"

// Target is one Pane Terminal dirsync can act on.
type Target struct {
	// ShellLike is true for the assistant and general shell panes (spec
	// §4.8: "the assistant and general shell are shell-like"); false for
	// the Git TUI pane, which instead needs a full restart.
	ShellLike bool
	lastCwd   string
}

// Sync tracks one directory value (the file browser's cwd) and the set
// of Pane Terminals that must be kept in step with it.
type Sync struct {
	targets map[string]*Target
	cwd     string
}

// New constructs an empty Sync; call Track for each pane that should
// follow directory changes.
func New() *Sync {
	return &Sync{targets: map[string]*Target{}}
}

// Track registers a pane under id. shellLike selects cd-push vs restart
// semantics (spec §4.8).
func (s *Sync) Track(id string, shellLike bool) {
	s.targets[id] = &Target{ShellLike: shellLike, lastCwd: s.cwd}
}

// Untrack removes a pane, e.g. because it was closed.
func (s *Sync) Untrack(id string) {
	delete(s.targets, id)
}

// SetCwd updates the observed file-browser directory. It does not itself
// enqueue anything — call Pending to collect the side effects for this
// tick (spec §4.9 step 4: "drain any queued side-effects").
func (s *Sync) SetCwd(cwd string) {
	s.cwd = cwd
}

// Effect is one deferred side effect dirsync wants applied this tick.
type Effect struct {
	TargetID string
	// Write is the bytes to push to a shell-like pane (nil for Restart).
	Write []byte
	// Restart requests a full child restart in the new directory instead
	// (the Git-TUI case).
	Restart bool
	Cwd     string
}

// Pending returns the effects needed to bring every stale target in sync
// with the current cwd, and marks them as synced.
func (s *Sync) Pending() []Effect {
	var effects []Effect
	for id, t := range s.targets {
		if t.lastCwd == s.cwd {
			continue
		}
		t.lastCwd = s.cwd
		if t.ShellLike {
			effects = append(effects, Effect{
				TargetID: id,
				Write:    []byte("cd " + QuotePath(s.cwd) + "\r"),
				Cwd:      s.cwd,
			})
		} else {
			effects = append(effects, Effect{TargetID: id, Restart: true, Cwd: s.cwd})
		}
	}
	return effects
}

// QuotePath single-quotes path, escaping any embedded single quote as
// '\'' (spec §4.8: "the same escape scheme used for drag-drop path
// insertion").
func QuotePath(path string) string {
	if !strings.Contains(path, "'") {
		return "'" + path + "'"
	}
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range path {
		if r == '\'' {
			b.WriteString(`'\''`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
