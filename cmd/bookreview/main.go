// Command bookreview is the terminal client for the bookreview API.
//
//	bookreview signup --name Ann --email ann@example.com
//	bookreview books --genre Sci-Fi --sort rating --page 2
//	bookreview review <book-id> --rating 5 --comment "loved it"
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(newApp(os.Stdin, os.Stdout)).Execute(); err != nil {
		os.Exit(1)
	}
}
