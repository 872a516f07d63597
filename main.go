package main

import "github.com/maxvaer/keycrack/cmd"

func main() {
	cmd.Execute()
}
