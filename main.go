package main

import "github.com/cppla/wemake/cmd"

func main() {
	cmd.Execute()
}
