package tracked

import (
	"net/http"
	"os"
	"strings"
)

const sniffLen = 2048

// IsBinary attempts a quick detection of whether the file is binary or text,
// looking at its first bytes only. Empty files are text.
func IsBinary(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buffer := make([]byte, sniffLen)
	n, err := file.Read(buffer)
	if n == 0 {
		// io.EOF on an empty file
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return looksBinary(buffer[:n]), nil
}

// looksBinary flags NUL bytes, a high share of control characters, or a
// sniffed content type outside text/.
func looksBinary(content []byte) bool {
	nonPrintable := 0
	for _, c := range content {
		if c == 0 {
			return true
		}
		if c < 32 && c != '\n' && c != '\r' && c != '\t' && c != '\f' && c != '\v' {
			nonPrintable++
		}
	}
	if float64(nonPrintable)/float64(len(content)) > 0.3 {
		return true
	}
	return !strings.HasPrefix(http.DetectContentType(content), "text/")
}
