/*
	Copyright 2023 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/trackroll/cmd"

func main() {
	cmd.Execute()
}
