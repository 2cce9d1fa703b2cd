package service

import (
	"fmt"
	"io"
	"os"

	"myblog/config"
)

// Swapped out in tests. A nil stdin or stdout means the process's own.
var (
	stdin  io.Reader
	stdout io.Writer
)

var loadConfig = func() (config.AppConfig, error) {
	return config.Load(config.DefaultPath)
}

func output() io.Writer {
	if stdout != nil {
		return stdout
	}
	return os.Stdout
}

func input() io.Reader {
	if stdin != nil {
		return stdin
	}
	return os.Stdin
}

func printf(format string, args ...interface{}) {
	fmt.Fprintf(output(), format, args...)
}

func printLine(args ...interface{}) {
	fmt.Fprintln(output(), args...)
}

// confirm asks a yes/no question; anything but y or Y is a no
func confirm(question string) bool {
	printf("%s [y/N] ", question)
	var response string
	fmt.Fscanln(input(), &response)
	return response == "y" || response == "Y"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
