// Command atmosd runs the station atmosphere headless: it steps a station
// for a number of ticks, optionally persisting snapshots to SQLite and
// streaming frames over a websocket, and can sweep solver settings.
package main

import "os"

func main() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
