package main

import (
	"os"

	"github.com/greensocial/green/app"
)

func main() {
	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}
