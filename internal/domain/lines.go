package domain

import "fmt"

type LineKind int

const (
	RowLine LineKind = iota
	ColumnLine
	// row and column both grow left to right
	AscendingDiagonal
	// row shrinks while column grows left to right
	DescendingDiagonal
)

var lineKindNames = map[LineKind]string{
	RowLine:            "row",
	ColumnLine:         "column",
	AscendingDiagonal:  "ascending",
	DescendingDiagonal: "descending",
}

func (k LineKind) String() string {
	if name, ok := lineKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("LineKind(%d)", int(k))
}

// LineID names a line by its kind and leftmost (topmost for columns) cell.
type LineID struct {
	Kind   LineKind
	Anchor Coordinate
}

func (id LineID) String() string {
	return fmt.Sprintf("%s%s", id.Kind, id.Anchor)
}

type Line struct {
	ID    LineID
	Cells []Coordinate
}

func (l Line) Len() int {
	return len(l.Cells)
}

// IndexOf returns the position of c on the line or -1.
func (l Line) IndexOf(c Coordinate) int {
	for i, cell := range l.Cells {
		if cell == c {
			return i
		}
	}
	return -1
}

// step returns the row/column deltas walking the line to the right
// (downwards for columns).
func (k LineKind) step() (int, int) {
	switch k {
	case RowLine:
		return 0, 1
	case ColumnLine:
		return 1, 0
	case AscendingDiagonal:
		return 1, 1
	default:
		return -1, 1
	}
}

// LineThrough builds the full line of the given kind that contains c.
// Diagonals may be shorter than ToWin near the corners.
func LineThrough(c Coordinate, kind LineKind) Line {
	anchor := anchorOf(c, kind)
	dr, dc := kind.step()

	cells := make([]Coordinate, 0, Columns)
	for cur := anchor; cur.InBounds(); cur = (Coordinate{Row: cur.Row + dr, Column: cur.Column + dc}) {
		cells = append(cells, cur)
	}

	return Line{ID: LineID{Kind: kind, Anchor: anchor}, Cells: cells}
}

// anchorOf walks back toward column 1 (row 1 for columns) until the
// next step would leave the grid.
func anchorOf(c Coordinate, kind LineKind) Coordinate {
	switch kind {
	case RowLine:
		return Coordinate{Row: c.Row, Column: 1}
	case ColumnLine:
		return Coordinate{Row: 1, Column: c.Column}
	}

	dr, dc := kind.step()
	anchor := c
	for {
		prev := Coordinate{Row: anchor.Row - dr, Column: anchor.Column - dc}
		if !prev.InBounds() {
			return anchor
		}
		anchor = prev
	}
}

// LinesThrough returns the row, column and both diagonals containing c.
func LinesThrough(c Coordinate) []Line {
	return []Line{
		LineThrough(c, RowLine),
		LineThrough(c, ColumnLine),
		LineThrough(c, AscendingDiagonal),
		LineThrough(c, DescendingDiagonal),
	}
}

// lines that can ever hold ToWin cells: 6 rows, 7 columns, 12 diagonals
var (
	trackedLines  = enumerateTrackedLines()
	trackedLineID = indexTrackedLines(trackedLines)
)

// TotalLines is the number of lines a tie has to exhaust.
var TotalLines = len(trackedLines)

func enumerateTrackedLines() []Line {
	lines := make([]Line, 0, 25)
	for r := 1; r <= Rows; r++ {
		lines = append(lines, LineThrough(Coordinate{Row: r, Column: 1}, RowLine))
	}
	for c := 1; c <= Columns; c++ {
		lines = append(lines, LineThrough(Coordinate{Row: 1, Column: c}, ColumnLine))
	}
	for _, kind := range []LineKind{AscendingDiagonal, DescendingDiagonal} {
		for _, anchor := range diagonalAnchors(kind) {
			lines = append(lines, LineThrough(anchor, kind))
		}
	}
	return lines
}

func indexTrackedLines(lines []Line) map[LineID]int {
	index := make(map[LineID]int, len(lines))
	for i, l := range lines {
		index[l.ID] = i
	}
	return index
}

// diagonalAnchors lists the leftmost cell of every diagonal long enough to
// hold ToWin cells. Anchors sit on column 1 or on the row the diagonal
// starts from (row 1 ascending, row Rows descending).
func diagonalAnchors(kind LineKind) []Coordinate {
	var anchors []Coordinate
	seen := make(map[Coordinate]bool)
	add := func(c Coordinate) {
		if seen[c] {
			return
		}
		seen[c] = true
		if LineThrough(c, kind).Len() >= ToWin {
			anchors = append(anchors, c)
		}
	}

	edgeRow := 1
	if kind == DescendingDiagonal {
		edgeRow = Rows
	}
	for c := 1; c <= Columns; c++ {
		add(Coordinate{Row: edgeRow, Column: c})
	}
	for r := 1; r <= Rows; r++ {
		add(Coordinate{Row: r, Column: 1})
	}
	return anchors
}

// TrackedLines returns a copy of the lines that decide a tie.
func TrackedLines() []Line {
	out := make([]Line, len(trackedLines))
	copy(out, trackedLines)
	return out
}

// DiagonalAnchors returns the anchors of the tracked diagonals of one kind.
func DiagonalAnchors(kind LineKind) []Coordinate {
	if kind != AscendingDiagonal && kind != DescendingDiagonal {
		return nil
	}
	return diagonalAnchors(kind)
}

// IsTracked reports whether id names one of the tie-deciding lines.
func IsTracked(id LineID) bool {
	_, ok := trackedLineID[id]
	return ok
}
