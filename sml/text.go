package sml

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadText parses the direct SML source format: one word per line, either
// "AA: +NNNN" (an explicit address) or bare "+NNNN" (the next address in
// sequence, starting at 0). It lets a host supply an already-assembled
// SML program instead of Simple source.
func LoadText(r io.Reader) (Image, error) {
	var img Image
	addr := 0

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		text := line
		if idx := strings.Index(line, ":"); idx >= 0 {
			addrText := strings.TrimSpace(line[:idx])
			a, err := strconv.Atoi(addrText)
			if err != nil {
				return img, errors.Wrapf(err, "line %d: invalid address %q", lineNo, addrText)
			}
			addr = a
			text = strings.TrimSpace(line[idx+1:])
		}

		if addr < 0 || addr >= memorySize {
			return img, fmt.Errorf("line %d: address %d out of range [0,%d)", lineNo, addr, memorySize)
		}
		value, err := strconv.Atoi(text)
		if err != nil {
			return img, errors.Wrapf(err, "line %d: invalid word %q", lineNo, text)
		}
		if value < wordMin || value > wordMax {
			return img, fmt.Errorf("line %d: word %d out of range [%d,%d]", lineNo, value, wordMin, wordMax)
		}

		img[addr] = value
		addr++
	}
	if err := scanner.Err(); err != nil {
		return img, errors.Wrap(err, "reading SML text")
	}
	return img, nil
}

// DumpText renders img back to the direct SML source format, one
// explicitly addressed word per line, skipping trailing zero cells.
func DumpText(w io.Writer, img Image) error {
	last := -1
	for i, word := range img {
		if word != 0 {
			last = i
		}
	}
	for addr := 0; addr <= last; addr++ {
		if _, err := fmt.Fprintf(w, "%02d: %+05d\n", addr, img[addr]); err != nil {
			return err
		}
	}
	return nil
}
