package main

import (
	"fmt"
	"os"
	"strings"

	"myblog/service"
)

// CliVersion is reported by the version command
const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args and exits with the command's status.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "version":
		fmt.Printf("myblog version %s\n", CliVersion)
	case "help":
		printHelp()
	default:
		exit(service.HandleCommand(append([]string{cmd}, os.Args[2:]...)))
	}
}

func printHelp() {
	helpText := `Usage: myblog <command> [options]
Commands:
  help                 Display this help message.
  version              Show version information.
  serve                Run the blog server.
  init                 Initialize a new empty database.
  backup [file]        Create a backup of the database.
  restore <file>       Restore database from backup.
  clean                Delete all data.
`
	fmt.Println(helpText)
}
