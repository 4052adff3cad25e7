package explorer

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/nim-rl/nim"
	"github.com/zeu5/nim-rl/rl"
	"github.com/zeu5/nim-rl/selfplay"
)

// PlaySession is an interactive game between a human on the terminal and
// a trained policy.
type PlaySession struct {
	ai    selfplay.ActionChooser
	piles []int
	human int
}

// NewPlaySession prepares a game against the given chooser. humanPlayer
// picks the human's seat, a negative value draws one at random.
func NewPlaySession(ai selfplay.ActionChooser, piles []int, humanPlayer int, seed int64) *PlaySession {
	human := humanPlayer
	if human < 0 {
		human = rl.NewRand(seed).Intn(2)
	}
	return &PlaySession{
		ai:    ai,
		piles: piles,
		human: human % 2,
	}
}

// Run plays one game on the terminal until someone wins.
func (p *PlaySession) Run() error {
	game := nim.NewGame(p.piles)
	if _, over := game.Winner(); !over && len(game.Moves()) == 0 {
		return errors.New("explorer: the board has no objects to take")
	}
	reader := bufio.NewReader(os.Stdin)

	fmt.Println(aurora.Bold("Playing Nim. Whoever takes the last object loses."))
	fmt.Printf("You are player %d\n", p.human)

	for {
		printBoard(game)
		if game.Player == p.human {
			fmt.Println(aurora.Bold("Your turn"))
			move, ok := readMove(reader)
			if !ok {
				continue
			}
			if err := game.Apply(move); err != nil {
				var invalid *nim.InvalidMoveError
				if errors.As(err, &invalid) {
					fmt.Println(aurora.Red("Invalid move, try again."))
					continue
				}
				return err
			}
		} else {
			fmt.Println(aurora.Cyan("AI's turn"))
			action, err := p.ai.ChooseAction(nim.StateOf(game), false)
			if err != nil {
				return err
			}
			move, ok := action.(nim.Move)
			if !ok {
				return fmt.Errorf("explorer: action %s is not a nim move", action.Hash())
			}
			fmt.Printf("AI chose to take %d from pile %d.\n", move.Count, move.Pile)
			if err := game.Apply(move); err != nil {
				return err
			}
		}
		if winner, over := game.Winner(); over {
			printBoard(game)
			fmt.Println(aurora.Bold("GAME OVER"))
			if winner == p.human {
				fmt.Println(aurora.Green("Winner is Human"))
			} else {
				fmt.Println(aurora.Cyan("Winner is AI"))
			}
			return nil
		}
	}
}

func printBoard(game *nim.Game) {
	fmt.Println()
	fmt.Println(aurora.Bold("Piles:"))
	for i, count := range game.Piles {
		fmt.Print(aurora.White(fmt.Sprintf("Pile %d: ", i)))
		fmt.Println(aurora.Green(strings.TrimRight(strings.Repeat("* ", count), " ")))
	}
}

// readMove prompts for a pile and a count. A failed parse returns false
// so the caller can prompt again.
func readMove(reader *bufio.Reader) (nim.Move, bool) {
	fmt.Print("Choose Pile: ")
	pileS, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println(aurora.Red("Invalid input! Try again"))
		return nim.Move{}, false
	}
	pile, err := strconv.Atoi(strings.Replace(pileS, "\n", "", -1))
	if err != nil {
		fmt.Println(aurora.Red("Invalid input! Try again"))
		return nim.Move{}, false
	}
	fmt.Print("Choose Count: ")
	countS, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println(aurora.Red("Invalid input! Try again"))
		return nim.Move{}, false
	}
	count, err := strconv.Atoi(strings.Replace(countS, "\n", "", -1))
	if err != nil {
		fmt.Println(aurora.Red("Invalid input! Try again"))
		return nim.Move{}, false
	}
	return nim.Move{Pile: pile, Count: count}, true
}
