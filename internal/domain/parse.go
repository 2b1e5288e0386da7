package domain

import (
	"strconv"
	"strings"
)

// ParseColumn reads a single column token such as "3". Anything that is not
// exactly one integer token is rejected instead of guessed at.
func ParseColumn(input string) (int, error) {
	fields := strings.Fields(input)
	if len(fields) != 1 {
		return 0, &MoveError{Input: input, Err: ErrMalformedInput}
	}

	column, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, &MoveError{Input: input, Err: ErrMalformedInput}
	}

	if column < 1 || column > Columns {
		return 0, &MoveError{Column: column, Input: input, Err: ErrOutOfRange}
	}
	return column, nil
}
