// Command idea-validator scores business ideas from the command line or as
// an MCP tool server.
//
// Usage:
//
//	idea-validator validate "A marketplace for renting camping gear"
//	idea-validator batch ideas.jsonl
//	idea-validator pivots --score 35 "A meal kit subscription"
//	idea-validator history
//	idea-validator mcp
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal; the environment is used as is.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
