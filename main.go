package main

import (
	"log"

	"stockverse/cmd/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
