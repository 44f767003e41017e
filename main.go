// Package main provides the framesrc CLI entrypoint.
package main

import "github.com/lukemcguire/framesrc/cli"

func main() {
	cli.Execute()
}
