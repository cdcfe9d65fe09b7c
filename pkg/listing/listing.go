package listing

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"unicode/utf8"
)

// readBatch is how many entries are requested from the OS per ReadDir call.
const readBatch = 256

// maxEmptyFailures bounds consecutive failed reads that return no entries, so
// a directory stream that keeps failing cannot stall the request.
const maxEmptyFailures = 8

// dirReader is the part of *os.File used for enumeration.
type dirReader interface {
	ReadDir(n int) ([]os.DirEntry, error)
}

// ErrInvalidName is recorded for entries whose name is not valid UTF-8.
var ErrInvalidName = errors.New("entry name is not valid UTF-8")

// ErrNotDirectory is recorded in Listing.Err when the path is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Listing is the result of a best-effort directory enumeration.
type Listing struct {
	// Names holds the readable entry names in display order.
	Names []string
	// Problems holds per-entry or per-batch errors that were skipped over.
	Problems []error
	// Err is set when the directory itself could not be opened.
	Err error
}

// Len returns the number of listed entries.
func (l Listing) Len() int {
	return len(l.Names)
}

// List reads the entries of path and returns their names sorted ascending by
// byte comparison, or descending when descending is true. A directory that
// cannot be opened yields an empty listing with Err set. Entries that fail to
// read are recorded in Problems and skipped. Subdirectories are listed by name
// but not descended into.
func List(path string, descending bool) Listing {
	var l Listing

	dir, err := os.Open(path)
	if err != nil {
		l.Err = fmt.Errorf("failed to open directory %s: %w", path, err)
		return l
	}
	defer dir.Close()

	if info, err := dir.Stat(); err == nil && !info.IsDir() {
		l.Err = fmt.Errorf("failed to open directory %s: %w", path, ErrNotDirectory)
		return l
	}

	l.read(dir, path)

	sort.Strings(l.Names)
	if descending {
		Reverse(l.Names)
	}
	return l
}

// read appends the entries of r to l until the stream is exhausted. A failed
// ReadDir call has already moved past the entry that failed, so reading
// resumes with the next one.
func (l *Listing) read(r dirReader, path string) {
	emptyFailures := 0
	for {
		entries, err := r.ReadDir(readBatch)
		for _, entry := range entries {
			name := entry.Name()
			if !utf8.ValidString(name) {
				l.Problems = append(l.Problems, fmt.Errorf("skipping %q: %w", name, ErrInvalidName))
				continue
			}
			l.Names = append(l.Names, name)
		}
		if err == io.EOF {
			return
		}
		if err == nil {
			emptyFailures = 0
			continue
		}

		l.Problems = append(l.Problems, fmt.Errorf("failed to read entries of %s: %w", path, err))
		if len(entries) > 0 {
			emptyFailures = 0
			continue
		}
		emptyFailures++
		if emptyFailures >= maxEmptyFailures {
			return
		}
	}
}

// Reverse reverses names in place.
func Reverse(names []string) {
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
}
