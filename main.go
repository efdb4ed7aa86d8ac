package main

import "next-pos/cmd"

func main() {
	cmd.Execute()
}
