package main

import (
	"fmt"
	"os"

	"plumberf/cmd/plumberf/cmd"
	"plumberf/internal/config"
)

// @title plumberf API
// @version 1.0
// @description Turns uploaded job-site videos into structured how-to lessons.
// @BasePath /
func main() {
	if path, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration Warning: %v\n", err)
	} else if path != "" && os.Getenv("PLUMBERF_QUIET") == "" {
		fmt.Fprintf(os.Stderr, "Loaded environment from %s\n", path)
	}

	cmd.Execute()
}
