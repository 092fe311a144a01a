package main

import (
	"fmt"
	"os"

	"github.com/agrivista/api-go/cli"
)

const ErrExitCode = 1

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(ErrExitCode)
	}
}
