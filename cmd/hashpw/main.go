package main

import (
	"log"
	"os"

	"github.com/krishirakshak/krishirakshak/internal/hashcli"
)

func main() {
	if err := hashcli.Run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatalf("hashpw: %v", err)
	}
}
