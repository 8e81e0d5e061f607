package pattern

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrRLESyntax reports malformed run length encoded input
var ErrRLESyntax = errors.New("malformed RLE")

/*
Decode reads a pattern in run length encoded form.

The format is the one pattern collections trade in: optional #N, #O and
#C tag lines, an "x = W, y = H" header with an optional rule field, then
a body of b (dead) and o (alive) runs with $ ending a row and !
terminating the pattern. Rows shorter than the width are padded with
dead cells.
*/
func Decode(r io.Reader) (*Pattern, error) {
	p := &Pattern{}
	sc := bufio.NewScanner(r)

	var header string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			p.tag(line)
			continue
		}
		header = line
		break
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "[Decode] read")
	}
	if header == "" {
		return nil, errors.Wrap(ErrRLESyntax, "[Decode] missing x/y header")
	}
	if err := p.parseHeader(header); err != nil {
		return nil, err
	}

	p.Cells = make([]bool, p.Width*p.Height)
	x, y, run := 0, 0, 0
	for sc.Scan() {
		for _, ch := range strings.TrimSpace(sc.Text()) {
			switch {
			case ch >= '0' && ch <= '9':
				run = run*10 + int(ch-'0')
				continue
			case ch == 'b' || ch == 'o':
				n := run
				if n == 0 {
					n = 1
				}
				if y >= p.Height {
					return nil, errors.Wrapf(ErrRLESyntax, "[Decode] more than %d rows", p.Height)
				}
				if x+n > p.Width {
					return nil, errors.Wrapf(ErrRLESyntax, "[Decode] row %d overflows width %d", y, p.Width)
				}
				if ch == 'o' {
					for i := range n {
						p.Cells[y*p.Width+x+i] = true
					}
				}
				x += n
			case ch == '$':
				n := run
				if n == 0 {
					n = 1
				}
				y += n
				x = 0
			case ch == '!':
				return p, nil
			default:
				return nil, errors.Wrapf(ErrRLESyntax, "[Decode] unexpected %q in body", ch)
			}
			run = 0
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "[Decode] read")
	}
	return nil, errors.Wrap(ErrRLESyntax, "[Decode] missing ! terminator")
}

// DecodeString decodes a pattern held in a string
func DecodeString(s string) (*Pattern, error) {
	return Decode(strings.NewReader(s))
}

// tag absorbs a # comment line into the pattern metadata
func (p *Pattern) tag(line string) {
	if len(line) < 2 {
		return
	}
	body := strings.TrimSpace(line[2:])
	switch line[1] {
	case 'N':
		p.Name = body
	case 'O':
		p.Author = body
	case 'C', 'c':
		if p.Comment != "" {
			p.Comment += " "
		}
		p.Comment += body
	}
}

// parseHeader reads the "x = W, y = H" line, tolerating a rule field as
// long as it names standard life
func (p *Pattern) parseHeader(line string) error {
	for _, field := range strings.Split(line, ",") {
		parts := strings.SplitN(field, "=", 2)
		if len(parts) != 2 {
			return errors.Wrapf(ErrRLESyntax, "[parseHeader] bad field %q", strings.TrimSpace(field))
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "x":
			w, err := strconv.Atoi(val)
			if err != nil || w < 1 {
				return errors.Wrapf(ErrRLESyntax, "[parseHeader] bad width %q", val)
			}
			p.Width = w
		case "y":
			h, err := strconv.Atoi(val)
			if err != nil || h < 1 {
				return errors.Wrapf(ErrRLESyntax, "[parseHeader] bad height %q", val)
			}
			p.Height = h
		case "rule":
			if !strings.EqualFold(val, "B3/S23") {
				return errors.Wrapf(ErrRLESyntax, "[parseHeader] unsupported rule %q", val)
			}
		default:
			return errors.Wrapf(ErrRLESyntax, "[parseHeader] unknown field %q", key)
		}
	}
	if p.Width == 0 || p.Height == 0 {
		return errors.Wrap(ErrRLESyntax, "[parseHeader] header missing dimensions")
	}
	return nil
}

// Encode writes the pattern in run length encoded form
func Encode(w io.Writer, p *Pattern) error {
	var b strings.Builder
	if p.Name != "" {
		b.WriteString("#N " + p.Name + "\n")
	}
	if p.Author != "" {
		b.WriteString("#O " + p.Author + "\n")
	}
	if p.Comment != "" {
		b.WriteString("#C " + p.Comment + "\n")
	}
	b.WriteString("x = " + strconv.Itoa(p.Width) + ", y = " + strconv.Itoa(p.Height) + ", rule = B3/S23\n")

	last := -1
	for y := range p.Height {
		for x := range p.Width {
			if p.Cells[y*p.Width+x] {
				last = y
			}
		}
	}

	col := 0
	pending := 0
	for y := 0; y <= last; y++ {
		if y > 0 {
			pending++
		}
		row := p.rowRuns(y)
		if len(row) == 0 {
			continue
		}
		if pending > 0 {
			writeRun(&b, &col, pending, '$')
			pending = 0
		}
		for _, run := range row {
			writeRun(&b, &col, run.n, run.ch)
		}
	}
	writeRun(&b, &col, 1, '!')
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "[Encode] write")
	}
	return nil
}

type runToken struct {
	n  int
	ch byte
}

// rowRuns collapses one row into runs, dropping the trailing dead run
func (p *Pattern) rowRuns(y int) []runToken {
	var runs []runToken
	x := 0
	for x < p.Width {
		state := p.Cells[y*p.Width+x]
		n := 1
		for x+n < p.Width && p.Cells[y*p.Width+x+n] == state {
			n++
		}
		ch := byte('b')
		if state {
			ch = 'o'
		}
		runs = append(runs, runToken{n: n, ch: ch})
		x += n
	}
	if len(runs) > 0 && runs[len(runs)-1].ch == 'b' {
		runs = runs[:len(runs)-1]
	}
	return runs
}

// writeRun appends one run token, wrapping lines near 70 columns the
// way collection files do
func writeRun(b *strings.Builder, col *int, n int, ch byte) {
	tok := string(ch)
	if n > 1 {
		tok = strconv.Itoa(n) + string(ch)
	}
	if *col+len(tok) > 70 {
		b.WriteString("\n")
		*col = 0
	}
	b.WriteString(tok)
	*col += len(tok)
}
