package sink

import (
	"fmt"
	"os"
	"sync"

	"github.com/toricodesthings/pdfconvert/internal/types"
)

// File writes <name>.txt and <name>.doc. Text is written to the text
// artifact as it is appended, so pages recognized before a late failure are
// already on disk; the word-processor package is written on Finalize.
type File struct {
	textPath string
	docPath  string

	mu     sync.Mutex
	txt    *os.File
	txtErr error
	blocks []string
	done   bool
	result FinalizeResult
}

func NewFile(textPath, docPath string) *File {
	return &File{textPath: textPath, docPath: docPath}
}

func (f *File) Append(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return
	}
	text = Sanitize(text)
	f.blocks = append(f.blocks, text)

	if f.txtErr != nil {
		return
	}
	if f.txt == nil {
		f.txt, f.txtErr = os.Create(f.textPath)
		if f.txtErr != nil {
			return
		}
	}
	if _, err := f.txt.WriteString(text); err != nil {
		f.txtErr = err
	}
}

// Finalize closes the text artifact and writes the word-processor artifact.
// Both are attempted regardless of the other's outcome. Calling it again
// returns the first result.
func (f *File) Finalize() FinalizeResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return f.result
	}
	f.done = true

	f.result = FinalizeResult{
		TextPath: f.textPath,
		DocPath:  f.docPath,
		TextErr:  f.finishText(),
		DocErr:   f.writeDoc(),
	}
	return f.result
}

func (f *File) finishText() error {
	err := f.txtErr
	if err == nil && f.txt == nil {
		f.txt, err = os.Create(f.textPath)
	}
	if f.txt != nil {
		if cerr := f.txt.Close(); err == nil {
			err = cerr
		}
	}
	if err == nil {
		err = exists(f.textPath)
	}
	if err != nil {
		_ = os.Remove(f.textPath)
		return &types.SinkWriteError{Artifact: "txt", Path: f.textPath, Err: err}
	}
	return nil
}

func (f *File) writeDoc() error {
	tmp := f.docPath + ".tmp"
	err := writeDocFile(tmp, f.blocks)
	if err == nil {
		err = os.Rename(tmp, f.docPath)
	}
	if err == nil {
		err = exists(f.docPath)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return &types.SinkWriteError{Artifact: "doc", Path: f.docPath, Err: err}
	}
	return nil
}

func writeDocFile(path string, blocks []string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDocx(out, blocks); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func exists(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !st.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	return nil
}
