package ui

import (
	"bufio"
	"os"
	"strings"
)

// ConfirmProceed asks a yes/no question on stdin. Anything other than
// "y" or "yes" (case-insensitive) declines.
func ConfirmProceed(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	os.Stdout.WriteString(prompt + " [y/N] ")
	input, _ := reader.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}
	return false
}
