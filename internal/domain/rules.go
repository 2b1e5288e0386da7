package domain

// CheckAlignment counts same-symbol cells outward from pivot in both
// directions at once and reports whether the run reaches ToWin.
// A direction stops at the first cell that is empty or holds another symbol.
func (b *Board) CheckAlignment(symbol Symbol, line Line, pivot Coordinate) bool {
	_, _, ok := b.alignedRun(symbol, line, pivot)
	return ok
}

// alignedRun returns the bounds [lo, hi] of the run found around pivot.
func (b *Board) alignedRun(symbol Symbol, line Line, pivot Coordinate) (int, int, bool) {
	if symbol == Empty {
		return 0, 0, false
	}
	idx := line.IndexOf(pivot)
	if idx < 0 || b.Cell(pivot) != symbol {
		return 0, 0, false
	}

	count := 1
	lo, hi := idx, idx
	leftOpen, rightOpen := true, true

	for leftOpen || rightOpen {
		if leftOpen {
			if lo-1 >= 0 && b.Cell(line.Cells[lo-1]) == symbol {
				lo--
				count++
				if count >= ToWin {
					return lo, hi, true
				}
			} else {
				leftOpen = false
			}
		}
		if rightOpen {
			if hi+1 < line.Len() && b.Cell(line.Cells[hi+1]) == symbol {
				hi++
				count++
				if count >= ToWin {
					return lo, hi, true
				}
			} else {
				rightOpen = false
			}
		}
	}

	return lo, hi, false
}

// HasAlignment checks only the four lines through the last move; any
// alignment must include the cell that was just played.
func (b *Board) HasAlignment(symbol Symbol, lastMove Coordinate) bool {
	for _, line := range LinesThrough(lastMove) {
		if b.CheckAlignment(symbol, line, lastMove) {
			return true
		}
	}
	return false
}

// WinningCells returns the aligned cells through lastMove, or nil.
// The scan stops as soon as ToWin cells are seen, so the result holds
// exactly ToWin coordinates.
func (b *Board) WinningCells(symbol Symbol, lastMove Coordinate) []Coordinate {
	for _, line := range LinesThrough(lastMove) {
		lo, hi, ok := b.alignedRun(symbol, line, lastMove)
		if !ok {
			continue
		}
		cells := make([]Coordinate, hi-lo+1)
		copy(cells, line.Cells[lo:hi+1])
		return cells
	}
	return nil
}
