// Command instantdots is the thin cobra CLI wrapping the dotfile core.
package main

import "github.com/instantdots/instantdots/cmd/instantdots/commands"

func main() {
	commands.Execute()
}
