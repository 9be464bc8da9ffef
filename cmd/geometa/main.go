// cmd/geometa/main.go
package main

import (
	"github.com/bstardust/photo-geometa/internal/logger"
	"github.com/bstardust/photo-geometa/pkg/cli"
)

func main() {
	// Initialize logger
	logger.Init()

	// Execute CLI
	cli.Execute()
}
