package main

import (
	"log"

	"github.com/trinobridge/opabridge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
