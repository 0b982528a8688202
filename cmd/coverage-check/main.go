// Command coverage-check runs coverage checks from the terminal against the
// same tables and geocoder the API uses.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
