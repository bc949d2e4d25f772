// Package docqa indexes user-supplied documents and answers questions
// against them.
package docqa

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"
)

// Document is one loaded source file.
type Document struct {
	Path    string
	Content string
}

// maxDocumentBytes caps a single file. Anything bigger is almost
// certainly not a text document the user meant to ask questions about.
const maxDocumentBytes = 16 << 20

// LoadDocuments reads all given files concurrently. Order of the result
// matches the order of paths. The first failure wins.
func LoadDocuments(paths []string) ([]Document, error) {
	docs := make([]Document, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			docs[i], errs[i] = loadDocument(path)
		}(i, path)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func loadDocument(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("load document %s: %w", filepath.Base(path), err)
	}
	if info.Size() > maxDocumentBytes {
		return Document{}, fmt.Errorf("load document %s: file too large (%d bytes)", filepath.Base(path), info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("load document %s: %w", filepath.Base(path), err)
	}
	if !utf8.Valid(data) {
		return Document{}, fmt.Errorf("load document %s: not valid UTF-8 text", filepath.Base(path))
	}

	return Document{Path: path, Content: string(data)}, nil
}
