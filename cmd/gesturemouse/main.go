// Command gesturemouse controls the mouse pointer with hand gestures seen by
// a webcam.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
