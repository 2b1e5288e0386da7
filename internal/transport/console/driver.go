package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/service/game"
	"github.com/iamasit07/connect4/pkg/logging"
	"github.com/rs/zerolog"
)

const exitCommand = "exit"

// ErrQuit is returned by Run when a player typed exit.
var ErrQuit = errors.New("program stopped")

// WatchLinkFunc returns the spectator URL for a game.
type WatchLinkFunc func(gameID string) (string, error)

// Driver runs one two-player game over a line based terminal.
type Driver struct {
	in        io.Reader
	out       io.Writer
	sessions  *game.SessionManager
	watchLink WatchLinkFunc
	logger    zerolog.Logger

	lines     chan string
	done      chan struct{}
	stop      chan struct{}
	err       error // read error, valid once done is closed
	startOnce sync.Once
	stopOnce  sync.Once
}

type Option func(*Driver)

func WithWatchLink(fn WatchLinkFunc) Option {
	return func(d *Driver) { d.watchLink = fn }
}

func NewDriver(in io.Reader, out io.Writer, sm *game.SessionManager, opts ...Option) *Driver {
	d := &Driver{
		in:       in,
		out:      out,
		sessions: sm,
		logger:   logging.Component("console"),
		lines:    make(chan string),
		done:     make(chan struct{}),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run plays a full game. It returns nil when the game ends with a winner or
// a tie, ErrQuit when a player typed exit, and the context or read error
// otherwise. An unfinished game is abandoned on the way out.
//
// Run may be called again for another game; input left over from the
// previous game is read from where it stopped.
func (d *Driver) Run(ctx context.Context) error {
	d.startOnce.Do(func() { go d.readLines() })

	d.printIntro()

	first, err := d.askSymbol(ctx, 1, "")
	if err != nil {
		return err
	}
	second, err := d.askSymbol(ctx, 2, first)
	if err != nil {
		return err
	}

	session, err := d.sessions.CreateSession(ctx,
		domain.Player{Name: "Player 1", Symbol: domain.Symbol(first)},
		domain.Player{Name: "Player 2", Symbol: domain.Symbol(second)})
	if err != nil {
		return err
	}
	d.printWatchLink(session.GameID)

	fmt.Fprintln(d.out, "Game start.")
	fmt.Fprintln(d.out)
	return d.play(ctx, session)
}

func (d *Driver) play(ctx context.Context, session *game.GameSession) error {
	for {
		idx, _ := session.CurrentPlayer()
		number := idx + 1

		input, err := d.prompt(ctx, fmt.Sprintf("Player %d make your move.", number))
		if err != nil {
			d.abandon(session)
			return err
		}
		if strings.TrimSpace(input) == exitCommand {
			d.abandon(session)
			fmt.Fprintln(d.out, "Program stopped.")
			return ErrQuit
		}

		result, err := session.HandleMove(ctx, input)
		if err != nil {
			fmt.Fprintf(d.out, "Invalid move: %s. Try again.\n", reason(err))
			continue
		}

		fmt.Fprintln(d.out, session.Render())
		switch {
		case result.Win:
			fmt.Fprintf(d.out, "Player %d is the winner.\n", number)
			return nil
		case result.Tie:
			fmt.Fprintln(d.out, "Game is a tie.")
			return nil
		}
	}
}

// askSymbol keeps asking until the player gives a single token that the
// other player is not already using.
func (d *Driver) askSymbol(ctx context.Context, number int, taken string) (string, error) {
	for {
		input, err := d.prompt(ctx, fmt.Sprintf("Player %d choose your symbol.", number))
		if err != nil {
			return "", err
		}
		symbol := strings.TrimSpace(input)

		switch {
		case symbol == exitCommand:
			fmt.Fprintln(d.out, "Program stopped.")
			return "", ErrQuit
		case symbol == "":
			fmt.Fprintln(d.out, "Symbol must not be empty.")
		case len(strings.Fields(symbol)) != 1:
			fmt.Fprintln(d.out, "Symbol must not contain spaces.")
		case symbol == taken:
			fmt.Fprintf(d.out, "Symbol %q is already taken.\n", symbol)
		default:
			return symbol, nil
		}
	}
}

func (d *Driver) prompt(ctx context.Context, text string) (string, error) {
	fmt.Fprintln(d.out, text)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line := <-d.lines:
		return line, nil
	case <-d.done:
		if d.err != nil {
			return "", d.err
		}
		return "", io.EOF
	}
}

// Close stops the input reader. A reader blocked on a read exits after its
// next line.
func (d *Driver) Close() {
	d.stopOnce.Do(func() { close(d.stop) })
}

// readLines feeds stdin into d.lines so a blocked read never holds up
// cancellation.
func (d *Driver) readLines() {
	defer close(d.done)
	scanner := bufio.NewScanner(d.in)
	for scanner.Scan() {
		select {
		case d.lines <- scanner.Text():
		case <-d.stop:
			return
		}
	}
	d.err = scanner.Err()
}

func (d *Driver) abandon(session *game.GameSession) {
	// the caller's context may already be cancelled
	if err := session.Abandon(context.Background()); err != nil && !errors.Is(err, domain.ErrGameFinished) {
		d.logger.Warn().Err(err).Str("game", session.GameID).Msg("error abandoning game")
	}
}

func (d *Driver) printWatchLink(gameID string) {
	if d.watchLink == nil {
		return
	}
	link, err := d.watchLink(gameID)
	if err != nil {
		d.logger.Warn().Err(err).Str("game", gameID).Msg("could not create watch link")
		return
	}
	fmt.Fprintf(d.out, "Spectators can follow this game at %s\n\n", link)
}

func reason(err error) string {
	var moveErr *domain.MoveError
	if errors.As(err, &moveErr) {
		return moveErr.Err.Error()
	}
	return err.Error()
}
