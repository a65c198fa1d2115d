// Command filehelper reads and writes line-oriented text files, locally or
// over SFTP.
//
// Usage:
//
//	filehelper [flags] <command> [args]
//
// Commands:
//
//	lines        - print every line of a file
//	map, idmap   - print a file as a key/value mapping
//	write, put   - write a value or a list of lines
//	read, head   - print the start of a file
//	view         - browse a file interactively
//	credentials  - store SFTP passwords in the system keyring
//	version      - show version information
package main

import (
	"fmt"
	"os"

	"github.com/ImGajeed76/filehelper/cmd/filehelper/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
