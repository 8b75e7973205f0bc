// Package prompt implements the interactive terminal front-end.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"kakeistat/internal/catalog"
)

// MaxCandidates is how many search matches are offered for selection.
const MaxCandidates = 10

// Prompter reads answers line by line from in and writes prompts to out.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	num   *message.Printer
	once  sync.Once
	lines chan line
}

type line struct {
	text string
	err  error
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:    bufio.NewReader(in),
		out:   out,
		num:   message.NewPrinter(language.Japanese),
		lines: make(chan line),
	}
}

// readLines feeds lines to Ask until the first read error. A read blocked on
// a terminal outlives a cancelled Ask; the process exits around it.
func (p *Prompter) readLines() {
	defer close(p.lines)
	for {
		text, err := p.in.ReadString('\n')
		p.lines <- line{text: text, err: err}
		if err != nil {
			return
		}
	}
}

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Prompter) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

// Number formats n with thousands separators.
func (p *Prompter) Number(n int) string {
	return p.num.Sprintf("%d", n)
}

// Ask prints label and returns the trimmed answer. A final line without a
// newline is still returned; io.EOF is only reported once input is exhausted.
// Cancelling ctx abandons the wait and returns ctx.Err().
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	p.once.Do(func() { go p.readLines() })
	fmt.Fprint(p.out, label)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil && (l.err != io.EOF || l.text == "") {
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}

// Confirm asks a yes/no question. Enter or "y" means yes; anything else no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question + " [Y/n] > ")
	if err != nil {
		return false, err
	}
	return answer == "" || strings.EqualFold(answer, "y"), nil
}

// Choose lets the user pick one of matched. A single match is taken without
// asking. Only the first MaxCandidates are offered; invalid answers are
// asked again.
func (p *Prompter) Choose(ctx context.Context, keyword string, matched []catalog.Item) (catalog.Item, error) {
	if len(matched) == 1 {
		p.Printf("  → %s\n", matched[0].Label())
		return matched[0], nil
	}

	shown := matched
	if len(shown) > MaxCandidates {
		shown = shown[:MaxCandidates]
	}

	p.Printf("「%s」を含む品目:\n", keyword)
	for i, item := range shown {
		p.Printf("  [%d] %s\n", i+1, item.Label())
	}
	if rest := len(matched) - len(shown); rest > 0 {
		p.Printf("  （他 %d 件）\n", rest)
	}

	for {
		answer, err := p.Ask(ctx, "番号を選択 > ")
		if err != nil {
			return catalog.Item{}, err
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(shown) {
			return shown[n-1], nil
		}
		p.Println("有効な番号を入力してください。")
	}
}
