package main

import "github.com/oshokin/snap-meta/cmd/snap-meta/cmd"

func main() {
	cmd.Execute()
}
