package main

import "github.com/chasemcdermott/stablecoin-sui-sub000/cmd"

func main() {
	cmd.Execute()
}
