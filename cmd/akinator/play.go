package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/robalobadob/akinator-go/internal/akinator"
)

// maxWrongGuesses is how many rejected guesses end the game.
const maxWrongGuesses = 3

var (
	questionColor = color.New(color.FgCyan, color.Bold)
	infoColor     = color.New(color.FgYellow)
	successColor  = color.New(color.FgGreen, color.Bold)
	failureColor  = color.New(color.FgRed)
)

// game is the part of *akinator.Session the player drives.
type game interface {
	Start(ctx context.Context) (string, error)
	Answer(ctx context.Context, a akinator.Answer) (string, error)
	Back(ctx context.Context) (string, error)
	Win(ctx context.Context) (*akinator.Guess, error)
	Progression() float64
	Step() int
}

type player struct {
	game      game
	in        *bufio.Scanner
	out       io.Writer
	threshold float64
}

func newPlayer(g game, in io.Reader, out io.Writer, threshold float64) *player {
	return &player{game: g, in: bufio.NewScanner(in), out: out, threshold: threshold}
}

// readLine returns the next trimmed input line; ok is false on EOF.
func (p *player) readLine() (string, bool) {
	fmt.Fprint(p.out, "> ")
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

// run plays one game until Akinator guesses right, gives up, or input ends.
func (p *player) run(ctx context.Context) error {
	q, err := p.game.Start(ctx)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	questionColor.Fprintln(p.out, q)

	wrong := 0
	lastGuessStep := -1
	for {
		if p.game.Progression() >= p.threshold && p.game.Step() > lastGuessStep {
			done, err := p.guess(ctx)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			wrong++
			if wrong >= maxWrongGuesses {
				failureColor.Fprintln(p.out, "I give up. You win!")
				return nil
			}
			lastGuessStep = p.game.Step()
			infoColor.Fprintln(p.out, "Let's keep going.")
		}

		line, ok := p.readLine()
		if !ok {
			infoColor.Fprintln(p.out, "Bye!")
			return nil
		}
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			infoColor.Fprintln(p.out, "Bye!")
			return nil
		case "back", "b":
			q, err := p.game.Back(ctx)
			if errors.Is(err, akinator.ErrCantGoBackAnyFurther) {
				failureColor.Fprintln(p.out, "Cannot go back anymore!")
				continue
			}
			if err != nil {
				return fmt.Errorf("go back: %w", err)
			}
			questionColor.Fprintln(p.out, q)
			continue
		}

		ans, err := akinator.ParseAnswer(line)
		if err != nil {
			failureColor.Fprintln(p.out, "Invalid answer. Use yes, no, idk, probably, probably not (or 0-4).")
			continue
		}
		q, err := p.game.Answer(ctx, ans)
		if errors.Is(err, akinator.ErrNoMoreQuestions) {
			// Out of questions: make a final guess regardless of progression.
			done, err := p.guess(ctx)
			if err != nil {
				return err
			}
			if !done {
				failureColor.Fprintln(p.out, "I give up. You win!")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		questionColor.Fprintln(p.out, q)
	}
}

// guess asks for the top candidate and whether it is right. done is true when
// the game is over (confirmed, no candidate, or input ended).
func (p *player) guess(ctx context.Context) (done bool, err error) {
	g, err := p.game.Win(ctx)
	if err != nil {
		return false, fmt.Errorf("win: %w", err)
	}
	if g == nil {
		failureColor.Fprintln(p.out, "No guess from Akinator.")
		return true, nil
	}

	successColor.Fprintln(p.out, "I think of:")
	fmt.Fprintf(p.out, "NAME: %s\n", g.Name)
	fmt.Fprintf(p.out, "DESCRIPTION: %s\n", g.Description)
	if g.AbsolutePicturePath != "" {
		fmt.Fprintf(p.out, "IMAGE URL: %s\n", g.AbsolutePicturePath)
	}
	infoColor.Fprintln(p.out, "Am I right? (yes/no)")

	for {
		line, ok := p.readLine()
		if !ok {
			return true, nil
		}
		ans, err := akinator.ParseAnswer(line)
		if err != nil {
			failureColor.Fprintln(p.out, "Please answer yes or no.")
			continue
		}
		if ans == akinator.AnswerYes || ans == akinator.AnswerProbably {
			successColor.Fprintln(p.out, "Great, guessed right one more time!")
			return true, nil
		}
		return false, nil
	}
}
