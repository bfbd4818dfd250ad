// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/stuartmcalpine/myADS/internal/reconcile"
	"github.com/stuartmcalpine/myADS/pkg/types"
)

// askYesNo reads a single y/n answer. Anything other than y or yes is a no.
func askYesNo(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// terminalPrompter drives the interactive decision points of a check pass:
// ambiguous co-authorship confirmation and removal confirmation.
type terminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalPrompter(in io.Reader, out io.Writer) *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(in), out: out}
}

func (p *terminalPrompter) ask(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N] ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (p *terminalPrompter) ConfirmCandidate(a types.Author, c reconcile.Candidate) (bool, error) {
	rec := c.Record
	fmt.Fprintf(p.out, "\nPossible paper by %s:\n", a.Name())
	fmt.Fprintf(p.out, "  %s\n", rec.Title)
	fmt.Fprintf(p.out, "  %s  (%s)\n", rec.Bibcode, rec.PubDate)
	fmt.Fprintf(p.out, "  %s\n", summarizeByline(rec, c.Position))
	return p.ask("Is this yours?")
}

func (p *terminalPrompter) ConfirmRemoval(a types.Author, pub types.Publication) (bool, error) {
	fmt.Fprintf(p.out, "\n%s no longer appears in the results for %s:\n", pub.Bibcode, a.Name())
	fmt.Fprintf(p.out, "  %s\n", pub.Title)
	return p.ask("Remove it from the tracked set?")
}

// summarizeByline shows the byline with the matched position highlighted,
// truncated around it for long author lists.
func summarizeByline(rec types.RemoteRecord, position int) string {
	names := rec.AuthorNames()
	if len(names) == 0 {
		return "(no author list)"
	}

	const window = 3
	start, end := 0, len(names)
	if len(names) > 2*window+1 && position > 0 {
		start = position - 1 - window
		if start < 0 {
			start = 0
		}
		end = position - 1 + window + 1
		if end > len(names) {
			end = len(names)
		}
	}

	var parts []string
	if start > 0 {
		parts = append(parts, "...")
	}
	for i := start; i < end; i++ {
		name := names[i]
		if i == position-1 {
			name = "*" + name + "*"
		}
		parts = append(parts, name)
	}
	if end < len(names) {
		parts = append(parts, "...")
	}
	return strings.Join(parts, "; ")
}
