// plugins/wordcount/wordcount.go
package wordcount

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-enry/go-enry/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/tidetext/internal/plugin"
)

// Ensure WordCount implements plugin.Plugin
var _ plugin.Plugin = (*WordCount)(nil)

// Stats summarizes a document.
type Stats struct {
	Lines      int
	Words      int
	Characters int // code points
	Graphemes  int // user-perceived characters
	Bytes      int
	MaxWidth   int // widest line in terminal cells
	Language   string
}

func (s Stats) String() string {
	msg := fmt.Sprintf("Lines: %d, Words: %d, Chars: %d, Graphemes: %d, Bytes: %d, Width: %d",
		s.Lines, s.Words, s.Characters, s.Graphemes, s.Bytes, s.MaxWidth)
	if s.Language != "" {
		msg += ", Language: " + s.Language
	}
	return msg
}

// Compute gathers Stats for content; path only feeds language detection.
func Compute(path, content string) Stats {
	stats := Stats{
		Words:      len(strings.Fields(content)),
		Characters: utf8.RuneCountInString(content),
		Graphemes:  uniseg.GraphemeClusterCount(content),
		Bytes:      len(content),
	}
	if content != "" {
		lines := strings.Split(content, "\n")
		stats.Lines = len(lines)
		for _, line := range lines {
			if w := runewidth.StringWidth(line); w > stats.MaxWidth {
				stats.MaxWidth = w
			}
		}
	}
	if path != "" || content != "" {
		stats.Language = enry.GetLanguage(filepath.Base(path), []byte(content))
	}
	return stats
}

// WordCount registers the :wc command.
type WordCount struct {
	api plugin.DocumentAPI
}

// New creates a new instance of the WordCount plugin.
func New() plugin.Plugin {
	return &WordCount{}
}

// Name returns the unique name of the plugin.
func (p *WordCount) Name() string {
	return "wordcount"
}

// Initialize registers the wc command.
func (p *WordCount) Initialize(api plugin.DocumentAPI) error {
	p.api = api
	if err := api.RegisterCommand("wc", p.executeWordCount); err != nil {
		return fmt.Errorf("failed to register 'wc' command: %w", err)
	}
	return nil
}

// Shutdown performs cleanup (nothing needed for this simple plugin).
func (p *WordCount) Shutdown() error {
	return nil
}

func (p *WordCount) executeWordCount(args []string) error {
	if p.api == nil {
		return fmt.Errorf("wordcount plugin not initialized with API")
	}
	stats := Compute(p.api.Path(), p.api.Content())
	p.api.SetStatusMessage("%s", stats)
	return nil
}
