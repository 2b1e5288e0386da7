package domain

// DeadLineSet caches lines proven unable to ever hold ToWin cells of one
// symbol. Entries are never removed.
type DeadLineSet struct {
	rows      map[int]struct{}
	columns   map[int]struct{}
	diagonals map[LineID]struct{}
}

type DeadLineCounts struct {
	Rows      int `json:"rows"`
	Columns   int `json:"columns"`
	Diagonals int `json:"diagonals"`
}

func NewDeadLineSet() *DeadLineSet {
	return &DeadLineSet{
		rows:      make(map[int]struct{}),
		columns:   make(map[int]struct{}),
		diagonals: make(map[LineID]struct{}),
	}
}

func (s *DeadLineSet) Add(id LineID) {
	switch id.Kind {
	case RowLine:
		s.rows[id.Anchor.Row] = struct{}{}
	case ColumnLine:
		s.columns[id.Anchor.Column] = struct{}{}
	default:
		s.diagonals[id] = struct{}{}
	}
}

func (s *DeadLineSet) Contains(id LineID) bool {
	var ok bool
	switch id.Kind {
	case RowLine:
		_, ok = s.rows[id.Anchor.Row]
	case ColumnLine:
		_, ok = s.columns[id.Anchor.Column]
	default:
		_, ok = s.diagonals[id]
	}
	return ok
}

func (s *DeadLineSet) Counts() DeadLineCounts {
	return DeadLineCounts{
		Rows:      len(s.rows),
		Columns:   len(s.columns),
		Diagonals: len(s.diagonals),
	}
}

// IsLineDead reports whether no player can complete an alignment on line
// any more. Dead lines are cached and never evaluated again.
func (b *Board) IsLineDead(line Line) bool {
	if b.dead.Contains(line.ID) {
		return true
	}
	if !b.lineIsDead(line) {
		return false
	}
	b.dead.Add(line.ID)
	return true
}

func (b *Board) lineIsDead(line Line) bool {
	// with at most one symbol on it, the line is still open to that player
	if !b.hasTwoSymbols(line) {
		return false
	}

	for i, pivot := range line.Cells {
		symbol := b.Cell(pivot)
		if symbol == Empty {
			continue
		}
		if b.reachableRun(line, i, symbol) >= ToWin {
			return false
		}
	}
	return true
}

// reachableRun counts the cells around line.Cells[i] that are empty or
// already hold symbol, capped at ToWin.
func (b *Board) reachableRun(line Line, i int, symbol Symbol) int {
	run := 1
	for j := i - 1; j >= 0 && run < ToWin; j-- {
		if s := b.Cell(line.Cells[j]); s != Empty && s != symbol {
			break
		}
		run++
	}
	for j := i + 1; j < line.Len() && run < ToWin; j++ {
		if s := b.Cell(line.Cells[j]); s != Empty && s != symbol {
			break
		}
		run++
	}
	return run
}

func (b *Board) hasTwoSymbols(line Line) bool {
	first := Empty
	for _, c := range line.Cells {
		s := b.Cell(c)
		if s == Empty {
			continue
		}
		if first == Empty {
			first = s
			continue
		}
		if s != first {
			return true
		}
	}
	return false
}

// IsTied re-evaluates the tracked lines touched since the previous call and
// reports whether all of them are dead. A line nobody touched keeps the
// status it had, since only its own cells decide it.
func (b *Board) IsTied() bool {
	for id := range b.pending {
		if !b.dead.Contains(id) {
			b.IsLineDead(trackedLines[trackedLineID[id]])
		}
		delete(b.pending, id)
	}

	for _, line := range trackedLines {
		if !b.dead.Contains(line.ID) {
			return false
		}
	}
	return true
}

// DeadLines reports how many lines of each family are proven dead.
func (b *Board) DeadLines() DeadLineCounts {
	return b.dead.Counts()
}
