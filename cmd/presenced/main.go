// Package main is the entry point for the presenced daemon.
package main

import (
	"log"

	"github.com/nuvionclient/presence/internal/daemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
