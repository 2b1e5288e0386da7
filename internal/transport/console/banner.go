package console

import (
	"fmt"

	"github.com/iamasit07/connect4/internal/domain"
)

const banner = `
  ####   ####  #    # #    # ######  ####  #####     #####  ####  #    # #####
 #    # #    # ##   # ##   # #      #    #   #       #     #    # #    # #    #
 #      #    # # #  # # #  # #####  #        #       ####  #    # #    # #    #
 #      #    # #  # # #  # # #      #        #       #     #    # #    # #####
 #    # #    # #   ## #   ## #      #    #   #       #     #    # #    # #   #
  ####   ####  #    # #    # ######  ####    #       #      ####   ####  #    #
`

const rulesRule = "------------------------------------------------------------------------------"

func (d *Driver) printIntro() {
	fmt.Fprint(d.out, banner)
	fmt.Fprintln(d.out, "Game Rules:")
	fmt.Fprintln(d.out, rulesRule)
	fmt.Fprintf(d.out, "Align %d symbols consecutively, before your opponent does, to win the game.\n", domain.ToWin)
	fmt.Fprintf(d.out, "Moves are written as a column number c, where 1 <= c <= %d. For example: \"3\".\n", domain.Columns)
	fmt.Fprintln(d.out, "Should a four-symbol alignment no longer be possible, the game is a tie.")
	fmt.Fprintf(d.out, "The program stops if either player writes %q.\n", exitCommand)
	fmt.Fprintln(d.out, rulesRule)
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, domain.NewBoard().Render())
}
