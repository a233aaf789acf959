/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/restu-lomboe/grip-principle/cmd"

func main() {
	cmd.Execute()
}
