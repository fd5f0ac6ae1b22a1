package main

import "github.com/ZacxDev/langbook/cmd"

func main() {
	cmd.Execute()
}
