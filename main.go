package main

import "github.com/KaramelBytes/macrolens-cli/cmd"

func main() {
	cmd.Execute()
}
