package main

import "github.com/oshokin/axiom-dist/cmd/axiom-sync/cmd"

func main() {
	cmd.Execute()
}
