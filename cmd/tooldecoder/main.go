// Command tooldecoder converts CAM tool libraries (Vectric Aspire, CarveCo,
// ESTLcam) into MillMage tool databases.
package main

import (
	"fmt"
	"os"

	apperrors "github.com/tooldecoder/tooldecoder/internal/errors"
)

func main() {
	a := &app{}
	if err := a.execute(a.rootCmd()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", apperrors.FormatUserMessage(err))
		os.Exit(1)
	}
}
