package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bethropolis/tidetext/internal/logger"
	"github.com/bethropolis/tidetext/internal/plugin"
	"github.com/bethropolis/tidetext/internal/types"
	"github.com/bethropolis/tidetext/internal/utils"
)

// errUnsaved is returned by commands that would drop unsaved changes.
var errUnsaved = errors.New("no write since last change (add ! to override)")

// registerAppCommands registers the built-in editing commands.
func registerAppCommands(a *App) {
	doc := a.doc

	builtins := map[string]plugin.CommandFunc{
		"insert": func(args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("usage: insert <index> <text>")
			}
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			text, err := a.textArg(1)
			if err != nil {
				return err
			}
			n, err := doc.InsertText(text, index)
			if err != nil {
				return err
			}
			a.SetStatusMessage("Inserted %d char(s) at %d", n, index)
			return nil
		},

		"delete": func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: delete <start> <end>")
			}
			start, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			end, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			r := types.NewCharRange(start, end)
			if err := doc.DeleteCharRange(r); err != nil {
				return err
			}
			a.SetStatusMessage("Deleted %s", r)
			return nil
		},

		"clear": func(args []string) error {
			if err := doc.Clear(); err != nil {
				return err
			}
			a.SetStatusMessage("Cleared")
			return nil
		},

		"take": func(args []string) error {
			taken, err := doc.Take()
			if err != nil {
				return err
			}
			a.SetStatusMessage("Took %q", taken)
			return nil
		},

		"replace": func(args []string) error {
			text, err := a.textArg(0)
			if err != nil {
				return err
			}
			if err := doc.Replace(text); err != nil {
				return err
			}
			a.SetStatusMessage("Replaced content")
			return nil
		},

		"undo": func(args []string) error {
			undone, err := doc.Undo()
			if err != nil {
				return err
			}
			if !undone {
				a.SetStatusMessage("Nothing to undo")
				return nil
			}
			a.SetStatusMessage("Undone")
			return nil
		},

		"redo": func(args []string) error {
			redone, err := doc.Redo()
			if err != nil {
				return err
			}
			if !redone {
				a.SetStatusMessage("Nothing to redo")
				return nil
			}
			a.SetStatusMessage("Redone")
			return nil
		},

		"load":  a.loadCommand(false),
		"load!": a.loadCommand(true),

		"save": func(args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("usage: save [path]")
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if err := doc.Save(path); err != nil {
				return err
			}
			a.SetStatusMessage("Saved %s", doc.Path())
			return nil
		},

		"print": func(args []string) error {
			a.SetStatusMessage("%s", doc.Content())
			return nil
		},

		"status": func(args []string) error {
			path := doc.Path()
			if path == "" {
				path = "[No Name]"
			}
			h := doc.History()
			a.SetStatusMessage("%s [%s] %d chars, %d journaled, undo: %v, redo: %v",
				path, doc.State(), utils.RuneCount(doc.Content()), doc.Journal().Size(), h.CanUndo(), h.CanRedo())
			return nil
		},

		"readonly": func(args []string) error {
			switch {
			case len(args) == 0:
			case len(args) == 1 && args[0] == "on":
				doc.SetReadOnly(true)
			case len(args) == 1 && args[0] == "off":
				doc.SetReadOnly(false)
			default:
				return fmt.Errorf("usage: readonly [on|off]")
			}
			if doc.IsReadOnly() {
				a.SetStatusMessage("Read-only")
			} else {
				a.SetStatusMessage("Writable")
			}
			return nil
		},

		"plugins": func(args []string) error {
			names := a.pluginManager.Names()
			if len(names) == 0 {
				a.SetStatusMessage("No plugins")
				return nil
			}
			a.SetStatusMessage("Plugins: %s", strings.Join(names, ", "))
			return nil
		},

		"journal": func(args []string) error {
			ops := doc.Journal().Operations()
			if len(ops) == 0 {
				a.SetStatusMessage("Journal is empty")
				return nil
			}
			for i, op := range ops {
				a.SetStatusMessage("%d: %s", i, op)
			}
			return nil
		},

		"loglevel": func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: loglevel <debug|info|warn|error>")
			}
			level, ok := logger.ParseLevel(args[0])
			if !ok {
				return fmt.Errorf("unknown log level '%s'", args[0])
			}
			logger.SetLevel(level)
			a.SetStatusMessage("Log level set to %s", level)
			return nil
		},

		"quit": func(args []string) error {
			if doc.IsEdited() {
				return errUnsaved
			}
			a.quitting = true
			return nil
		},

		"quit!": func(args []string) error {
			a.quitting = true
			return nil
		},
	}

	if a.db != nil {
		builtins["documents"] = func(args []string) error {
			names, err := a.db.Names()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				a.SetStatusMessage("No stored documents")
				return nil
			}
			a.SetStatusMessage("%s", strings.Join(names, ", "))
			return nil
		}
	}

	for name, fn := range builtins {
		if err := a.RegisterCommand(name, fn); err != nil {
			logger.Warnf("Failed to register ':%s' command: %v", name, err)
		}
	}

	aliases := map[string]string{
		"i": "insert", "d": "delete", "u": "undo",
		"e": "load", "e!": "load!", "w": "save",
		"p": "print", "q": "quit", "q!": "quit!",
	}
	for alias, target := range aliases {
		if err := a.RegisterCommand(alias, builtins[target]); err != nil {
			logger.Warnf("Failed to register ':%s' alias: %v", alias, err)
		}
	}

	if err := a.RegisterCommand("wq", func(args []string) error {
		if err := builtins["save"](args); err != nil {
			return err
		}
		a.quitting = true
		return nil
	}); err != nil {
		logger.Warnf("Failed to register ':wq' command: %v", err)
	}
}

func (a *App) loadCommand(force bool) plugin.CommandFunc {
	return func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: load <path>")
		}
		if !force && a.doc.IsEdited() {
			return errUnsaved
		}
		if err := a.doc.Load(args[0]); err != nil {
			return err
		}
		a.SetStatusMessage("Loaded %s (%d chars)", args[0], utils.RuneCount(a.doc.Content()))
		return nil
	}
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index '%s': %w", s, err)
	}
	return n, nil
}

// textArg returns the argument text after the first skip fields of the
// current command line. Unquoted text is taken as written, so runs of blanks
// inside it survive; leading and trailing blanks need a quoted literal, which
// must then be the only thing left on the line.
func (a *App) textArg(skip int) (string, error) {
	s := a.lineArgs
	for i := 0; i < skip; i++ {
		s = strings.TrimLeft(s, " \t")
		end := strings.IndexAny(s, " \t")
		if end < 0 {
			end = len(s)
		}
		s = s[end:]
	}
	s = strings.TrimLeft(s, " \t")
	if s == "" || (s[0] != '"' && s[0] != '`') {
		return s, nil
	}

	quoted, err := strconv.QuotedPrefix(s)
	if err != nil {
		return "", fmt.Errorf("malformed quoted argument %s", s)
	}
	if tail := strings.TrimSpace(s[len(quoted):]); tail != "" {
		return "", fmt.Errorf("unexpected text after quoted argument: %s", tail)
	}
	return strconv.Unquote(quoted)
}

// splitArgs splits a command's argument string on blanks. Arguments in
// double quotes or backquotes are Go string literals, so they can hold
// blanks and escapes such as \n.
func splitArgs(s string) ([]string, error) {
	var args []string
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return args, nil
		}
		if s[0] == '"' || s[0] == '`' {
			quoted, err := strconv.QuotedPrefix(s)
			if err != nil {
				return nil, fmt.Errorf("malformed quoted argument %s", s)
			}
			unquoted, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, fmt.Errorf("malformed quoted argument %s: %w", quoted, err)
			}
			args = append(args, unquoted)
			s = s[len(quoted):]
			continue
		}
		end := strings.IndexAny(s, " \t")
		if end < 0 {
			end = len(s)
		}
		args = append(args, s[:end])
		s = s[end:]
	}
}
