package emojimosaic

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// OutputPath derives an unused output filename from input, trying
// "<input> - Output.png" then "<input> - Output (1).png" and so on, where
// <input> has its extension removed.
func OutputPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))

	path := base + " - Output.png"
	for i := 1; exists(path); i++ {
		path = fmt.Sprintf("%s - Output (%d).png", base, i)
	}

	return path
}
