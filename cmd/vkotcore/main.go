// Command vkotcore is the headless terminal-emulator core: it launches a
// child process on a PTY, decodes its VT output into an in-memory screen,
// and bridges damage and input with a display server over a Unix socket.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func envOrFlagDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
