package explorer

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zeu5/nim-rl/nim"
)

// Interact runs the main interactive loop
func (e *Explorer) Interact() {
	fmt.Printf("%s", e.header())
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s", e.prompt())

		optionS, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("Invalid input! Try again")
			continue
		}
		option, err := strconv.Atoi(strings.Replace(optionS, "\n", "", -1))
		if err != nil {
			fmt.Println("Invalid input! Try again")
			continue
		}
		fmt.Println("------------------------------------")
		switch option {
		case 1:
			fmt.Printf("%s", e.describeBoard())
		case 2:
			fmt.Printf("Enter the state key: ")
			stateK, err := reader.ReadString('\n')
			if err != nil {
				fmt.Println("Invalid input! Try again")
				continue
			}
			fmt.Printf("%s", e.getQValues(strings.Replace(stateK, "\n", "", -1)))
		case 3:
			fmt.Printf("%s", e.bestLine())
		case 4:
			fmt.Printf("Enter trace number (1-%d): ", len(e.Traces))
			traceNoS, err := reader.ReadString('\n')
			if err != nil {
				fmt.Println("Invalid input! Try again")
				continue
			}
			traceNo, err := strconv.Atoi(strings.Replace(traceNoS, "\n", "", -1))
			if err != nil {
				fmt.Println("Invalid input! Not a number. Try again")
				continue
			}
			if traceNo < 1 || traceNo > len(e.Traces) {
				fmt.Printf("Invalid input! Should be between (1-%d). Try again\n", len(e.Traces))
				continue
			}
			e.interactTrace(traceNo-1, reader)
		case 5:
			fmt.Println("Quitting! Thank you")
			return
		default:
			fmt.Println("Wrong choice! Try again!")
		}
	}
}

func (e *Explorer) describeBoard() string {
	out := fmt.Sprintf("Starting board: %s\n", nim.NewState(e.Piles).Hash())
	out += fmt.Sprintf("Learned values: %d entries across %d states\n", e.QTable.Size(), len(e.QTable.States()))
	out += fmt.Sprintf("Recorded traces: %d\n", len(e.Traces))
	return out
}

func (e *Explorer) getQValues(stateKey string) string {
	keys, values, ok := e.sortedValues(stateKey)
	if !ok {
		return "No such state in the q table\n"
	}
	if len(keys) == 0 {
		return "No values in the q table for the corresponding state\n"
	}
	out := "Q values are:\n"
	for _, k := range keys {
		out += fmt.Sprintf("%s: %f\n", k, values[k])
	}
	return out
}

// bestLine plays the greedy move from the starting board until the game
// ends and renders each step.
func (e *Explorer) bestLine() string {
	game := nim.NewGame(e.Piles)
	out := fmt.Sprintf("Best line from %s:\n", nim.StateOf(game).Hash())
	for step := 1; ; step++ {
		if winner, over := game.Winner(); over {
			out += fmt.Sprintf("Winner: player %d\n", winner)
			return out
		}
		move, value, ok := greedyMove(e.QTable, game)
		if !ok {
			out += "No moves available\n"
			return out
		}
		player := game.Player
		if err := game.Apply(move); err != nil {
			out += fmt.Sprintf("Stopped: %s\n", err)
			return out
		}
		out += fmt.Sprintf("%d. player %d plays %s (value %f) -> %s\n",
			step, player, move.Hash(), value, nim.StateOf(game).Hash())
	}
}

func (e *Explorer) header() string {
	return `
Welcome to the q table explorer!
	`
}

func (e *Explorer) prompt() string {
	return `
------------------------------------
Select one of the following options:
1. Show the starting board
2. Show QValues
3. Walk the best line
4. Explore a trace
5. Quit
Enter your choice: `
}

func (e *Explorer) tracePrompt() string {
	return `
---------------------------------------------
Step(s) QValues(d) Prev(p) Last(l) Quit(q): `
}

func (e *Explorer) interactTrace(traceNo int, reader *bufio.Reader) {
	stepCount := 0
	trace := e.Traces[traceNo]
	if trace.Len() == 0 {
		fmt.Println("Empty trace!")
		return
	}
	fmt.Println("---------------------------------------------")
	for {
		s, a, ns, _ := trace.Get(stepCount)
		fmt.Printf("For step %d\nState: %s\nAction: %s\nNextState: %s\n", stepCount+1, s.Hash(), a.Hash(), ns.Hash())
		fmt.Printf("%s", e.tracePrompt())
		optionS, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("Invalid input! Try again")
			continue
		}
		fmt.Println("---------------------------------------------")
		option := strings.Replace(optionS, "\n", "", -1)
		switch option {
		case "s":
			if stepCount == trace.Len()-1 {
				fmt.Println("No more steps!")
				continue
			}
			stepCount += 1
		case "d":
			fmt.Printf("%s", e.getQValues(s.Hash()))
		case "p":
			if stepCount == 0 {
				fmt.Println("No more steps!")
				continue
			}
			stepCount -= 1
		case "l":
			stepCount = trace.Len() - 1
		case "q":
			return
		default:
			fmt.Println("Invalid option! Try again.")
		}
	}
}
