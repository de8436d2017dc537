package main

import "github.com/oshokin/axiom-dist/cmd/axiom-fetch/cmd"

func main() {
	cmd.Execute()
}
