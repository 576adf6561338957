package main

import (
	"os"

	"github.com/rodrigocostacamargos/TalkToEBM/internal/ebmctl"
)

func main() { os.Exit(ebmctl.Main()) }
