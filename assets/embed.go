// Package assets embeds the default dictionary and the SQLite migrations so
// the server runs without any files next to the binary.
package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed words.txt sql/*.sql
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// DictionaryList returns the embedded word list in file order.
func DictionaryList() ([]string, error) {
	return readLines("words.txt")
}

// Migrations exposes the embedded sql/ directory.
func Migrations() fs.FS {
	return FS
}
