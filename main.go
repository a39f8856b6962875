/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "stempel/cmd"

func main() {
	cmd.Execute()
}
