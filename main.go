package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ravdin/repolens/cmd/cli"
)

const (
	environmentFileNameConstant = ".env"
	exitErrorTemplateConstant   = "%v\n"
)

// main executes the repolens command-line application. Credentials such as
// XAI_API_KEY may be supplied through a .env file next to the binary.
func main() {
	if _, statError := os.Stat(environmentFileNameConstant); statError == nil {
		_ = godotenv.Load(environmentFileNameConstant)
	}

	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
