package paddleocr

import (
	"bufio"
	"os"
)

// LoadDict reads a PaddleOCR character dictionary, one glyph per line, and
// prepends the CTC blank plus appends the space character the way
// PaddleOCR's rec postprocessing expects index 0 to be reserved.
func LoadDict(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	chars := []string{"blank"}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		chars = append(chars, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	chars = append(chars, " ")
	return chars, nil
}
