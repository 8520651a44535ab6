// Command steg hides a text message in the pixels of an image and reveals
// it again.
//
//	steg hide -in cover.png -out secret.png -m "meet at noon"
//	steg reveal -in secret.png
//	steg capacity cover.png
package main

import (
	"os"

	"github.com/svanichkin/steg/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
