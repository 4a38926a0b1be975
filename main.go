package main

import "github.com/shouni/go-dungeon-buddy/cmd"

func main() {
	cmd.Execute()
}
