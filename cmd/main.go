package main

import "github.com/kcaldas/promptline/cmd/cli"

func main() {
	cli.Execute()
}
