package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Menu interface {
	Items() []string
}

// Main is the session menu. Item N maps to dispatch entry N.
type Main struct{}

func (Main) Items() []string {
	return []string{
		"Encrypt text",
		"Decrypt text",
		"Display buffer",
		"Clear buffer",
		"Save to file",
		"Load from file",
		"Exit",
	}
}

func Display(m Menu, w io.Writer) {
	fmt.Fprintln(w, "\n===MENU===")
	for i, item := range m.Items() {
		fmt.Fprintf(w, "%d. %s\n", i+1, item)
	}
	fmt.Fprintln(w, "==========")
}

// Choice prompts until r yields a number within the menu's range.
// It returns io.EOF once input is exhausted.
func Choice(m Menu, r *bufio.Reader, w io.Writer) (int, error) {
	n := len(m.Items())
	for {
		fmt.Fprint(w, "Please provide a menu choice (number): ")
		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return 0, err
		}
		choice, convErr := strconv.Atoi(strings.TrimSpace(line))
		switch {
		case convErr != nil:
			fmt.Fprintln(w, "Please enter a valid number")
		case choice < 1 || choice > n:
			fmt.Fprintf(w, "Please enter a number between 1 and %d\n", n)
		default:
			return choice, nil
		}
		if err != nil {
			return 0, err
		}
	}
}
