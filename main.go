/*
Copyright © 2026 Varyaggg
*/
package main

import "github.com/Varyaggg/quest-bot/cmd"

func main() {
	cmd.Execute()
}
