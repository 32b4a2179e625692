package main

import "github.com/wad350/gwm-home-assistant/cmd"

func main() {
	cmd.Execute()
}
