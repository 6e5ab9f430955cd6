// Package extract turns uploaded files into the single plain-text string
// the core consumes.
package extract

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Extractor reads .txt files directly and shells out to pdftotext for PDFs.
type Extractor struct {
	pdfToTextPath string
}

func New(pdfToTextPath string) *Extractor {
	if pdfToTextPath == "" {
		pdfToTextPath = "pdftotext"
	}
	return &Extractor{pdfToTextPath: pdfToTextPath}
}

// Text extracts the plain text of the file at path.
func (e *Extractor) Text(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", eris.Wrapf(err, "reading %s", path)
		}
		return string(data), nil
	case ".pdf":
		out, err := exec.Command(e.pdfToTextPath, path, "-").Output()
		if err != nil {
			return "", eris.Wrapf(err, "extracting text from %s", path)
		}
		return string(out), nil
	default:
		return "", eris.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}
