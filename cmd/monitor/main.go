// Command disaster-monitor runs the disaster monitoring backend: the REST
// API, scheduled FIRMS ingestion and the realtime watch client.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
