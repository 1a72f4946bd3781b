package board

import (
	"fmt"
	"strings"
)

const (
	emptyGlyph = '.'
	blackGlyph = 'X'
	whiteGlyph = 'O'
)

func (c Cell) glyph() byte {
	switch c {
	case BlackStone:
		return blackGlyph
	case WhiteStone:
		return whiteGlyph
	}
	return emptyGlyph
}

// ToDisplayText renders the board with row (x) and column (y) indices.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("\n    ")
	for y := 0; y < Size; y++ {
		fmt.Fprintf(&sb, "%-3d", y)
	}
	sb.WriteString("\n   ")
	sb.WriteString(strings.Repeat("-", Size*3))
	sb.WriteString("\n")
	for x := 0; x < Size; x++ {
		fmt.Fprintf(&sb, "%2d| ", x)
		for y := 0; y < Size; y++ {
			sb.WriteByte(b.squares[x][y].glyph())
			sb.WriteString("  ")
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   ")
	sb.WriteString(strings.Repeat("-", Size*3))
	sb.WriteString("\n")
	return sb.String()
}

// String returns the compact notation: Size rows of Size glyphs
// ('.', 'X' for black, 'O' for white) separated by '/'. Row i is x == i.
func (b *Board) String() string {
	rows := make([]string, Size)
	for x := 0; x < Size; x++ {
		row := make([]byte, Size)
		for y := 0; y < Size; y++ {
			row[y] = b.squares[x][y].glyph()
		}
		rows[x] = string(row)
	}
	return strings.Join(rows, "/")
}

// FromString parses the compact notation produced by String. Rows may be
// separated by '/' or newlines; surrounding whitespace is ignored.
func FromString(s string) (*Board, error) {
	s = strings.TrimSpace(s)
	rows := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '\n'
	})
	if len(rows) != Size {
		return nil, fmt.Errorf("expected %d rows, got %d", Size, len(rows))
	}
	b := NewBoard()
	for x, row := range rows {
		row = strings.TrimSpace(row)
		if len(row) != Size {
			return nil, fmt.Errorf("row %d: expected %d squares, got %d", x, Size, len(row))
		}
		for y := 0; y < Size; y++ {
			switch row[y] {
			case emptyGlyph:
			case blackGlyph, 'x', 'B', 'b':
				b.squares[x][y] = BlackStone
			case whiteGlyph, 'o', 'W', 'w':
				b.squares[x][y] = WhiteStone
			default:
				return nil, fmt.Errorf("row %d: unexpected character %q", x, row[y])
			}
		}
	}
	return b, nil
}

// BoardState returns the board as rows of "empty"/"black"/"white", the
// shape the UI layer consumes.
func (b *Board) BoardState() [][]string {
	state := make([][]string, Size)
	for x := 0; x < Size; x++ {
		state[x] = make([]string, Size)
		for y := 0; y < Size; y++ {
			state[x][y] = b.squares[x][y].String()
		}
	}
	return state
}
