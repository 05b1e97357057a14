package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DateLayout: формат ввода дат.
const DateLayout = "2006-01-02"

type Option struct {
	Label    string
	Disabled bool
}

// Prompter читает ответы построчно. Пустая строка или конец ввода: отмена.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Prompter) read(label string) (string, bool) {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

// Line: непустая строка.
func (p *Prompter) Line(label string) (string, bool) {
	s, ok := p.read(label)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Edit показывает текущее значение; пустой ввод его сохраняет, "-" очищает.
func (p *Prompter) Edit(label, current string) (string, bool) {
	s, ok := p.read(fmt.Sprintf("%s [%s]", label, current))
	if !ok {
		return "", false
	}
	switch s {
	case "":
		return current, true
	case "-":
		return "", true
	}
	return s, true
}

// Date читает дату; при неверном формате спрашивает снова.
func (p *Prompter) Date(label string, current *time.Time) (time.Time, bool) {
	for {
		var (
			s  string
			ok bool
		)
		if current != nil {
			s, ok = p.read(fmt.Sprintf("%s (%s) [%s]", label, "YYYY-MM-DD", current.Format(DateLayout)))
			if ok && s == "" {
				return *current, true
			}
		} else {
			s, ok = p.read(fmt.Sprintf("%s (%s)", label, "YYYY-MM-DD"))
		}
		if !ok || s == "" {
			return time.Time{}, false
		}
		t, err := time.ParseInLocation(DateLayout, s, time.UTC)
		if err == nil {
			return t, true
		}
		p.Printf("invalid date %q\n", s)
	}
}

// Int читает целое число >= minimum; пустой ввод: отмена.
func (p *Prompter) Int(label string, minimum int) (int, bool) {
	for {
		s, ok := p.Line(label)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		if err == nil && n >= minimum {
			return n, true
		}
		p.Printf("enter a number >= %d\n", minimum)
	}
}

func (p *Prompter) Confirm(label string) bool {
	s, ok := p.read(label + " (y/N)")
	return ok && (strings.EqualFold(s, "y") || strings.EqualFold(s, "yes"))
}

// Select печатает нумерованный список и возвращает индекс выбранного варианта.
func (p *Prompter) Select(title string, opts []Option) (int, bool) {
	if len(opts) == 0 {
		p.Printf("%s: nothing to choose from\n", title)
		return 0, false
	}
	p.Printf("%s\n", title)
	for i, o := range opts {
		if o.Disabled {
			p.Printf("  %d) %s (not allowed)\n", i+1, o.Label)
			continue
		}
		p.Printf("  %d) %s\n", i+1, o.Label)
	}
	for {
		s, ok := p.Line(">")
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		switch {
		case err != nil || n < 1 || n > len(opts):
			p.Printf("choose 1-%d\n", len(opts))
		case opts[n-1].Disabled:
			p.Printf("%q is not allowed for the current user\n", opts[n-1].Label)
		default:
			return n - 1, true
		}
	}
}

// choose: Select по списку значений.
func choose[T any](p *Prompter, title string, items []T, label func(T) string) (T, bool) {
	opts := make([]Option, len(items))
	for i, it := range items {
		opts[i] = Option{Label: label(it)}
	}
	i, ok := p.Select(title, opts)
	if !ok {
		var zero T
		return zero, false
	}
	return items[i], true
}
