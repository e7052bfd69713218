// Package fitstest writes small FITS files byte by byte for tests, so that the
// reader is exercised against files it did not produce itself.
package fitstest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const (
	blockSize = 2880
	cardSize  = 80
)

// Card is one header keyword. Value may be bool, int, float64 or string.
type Card struct {
	Key     string
	Value   any
	Comment string
}

// HDU describes one header-data unit. Data holds stored (not physical) values
// and is converted to the type selected by Bitpix.
type HDU struct {
	Bitpix int
	Axes   []int
	Data   []float64
	Cards  []Card
}

// Image returns a float32 primary HDU of the given shape filled by fn(x, y).
func Image(width, height int, fn func(x, y int) float64, cards ...Card) HDU {
	data := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			data[y*width+x] = fn(x, y)
		}
	}
	return HDU{Bitpix: -32, Axes: []int{width, height}, Data: data, Cards: cards}
}

// Write encodes hdus into a file under dir and returns its path. The first HDU
// is the primary one; the rest are written as IMAGE extensions.
func Write(tb testing.TB, dir, name string, hdus ...HDU) string {
	tb.Helper()
	var buf bytes.Buffer
	for i, h := range hdus {
		if err := encodeHDU(&buf, h, i == 0); err != nil {
			tb.Fatalf("encoding HDU %d: %v", i, err)
		}
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		tb.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func encodeHDU(buf *bytes.Buffer, h HDU, primary bool) error {
	var hdr bytes.Buffer
	if primary {
		writeCard(&hdr, Card{Key: "SIMPLE", Value: true})
	} else {
		writeCard(&hdr, Card{Key: "XTENSION", Value: "IMAGE"})
	}
	writeCard(&hdr, Card{Key: "BITPIX", Value: h.Bitpix})
	writeCard(&hdr, Card{Key: "NAXIS", Value: len(h.Axes)})
	for i, n := range h.Axes {
		writeCard(&hdr, Card{Key: fmt.Sprintf("NAXIS%d", i+1), Value: n})
	}
	if !primary {
		writeCard(&hdr, Card{Key: "PCOUNT", Value: 0})
		writeCard(&hdr, Card{Key: "GCOUNT", Value: 1})
	}
	for _, c := range h.Cards {
		writeCard(&hdr, c)
	}
	hdr.WriteString(pad("END", cardSize))
	buf.Write(padBlock(hdr.Bytes(), ' '))

	if len(h.Axes) == 0 {
		return nil
	}
	var data bytes.Buffer
	for _, v := range h.Data {
		var err error
		switch h.Bitpix {
		case 8:
			err = data.WriteByte(uint8(v))
		case 16:
			err = binary.Write(&data, binary.BigEndian, int16(v))
		case 32:
			err = binary.Write(&data, binary.BigEndian, int32(v))
		case 64:
			err = binary.Write(&data, binary.BigEndian, int64(v))
		case -32:
			err = binary.Write(&data, binary.BigEndian, math.Float32bits(float32(v)))
		case -64:
			err = binary.Write(&data, binary.BigEndian, math.Float64bits(v))
		default:
			return fmt.Errorf("bitpix %d", h.Bitpix)
		}
		if err != nil {
			return err
		}
	}
	buf.Write(padBlock(data.Bytes(), 0))
	return nil
}

func writeCard(buf *bytes.Buffer, c Card) {
	var val string
	switch v := c.Value.(type) {
	case bool:
		val = fmt.Sprintf("%20s", map[bool]string{true: "T", false: "F"}[v])
	case int:
		val = fmt.Sprintf("%20d", v)
	case float64:
		val = fmt.Sprintf("%20s", formatFloat(v))
	case string:
		val = fmt.Sprintf("'%-8s'", v)
	}
	line := fmt.Sprintf("%-8s= %s", c.Key, val)
	if c.Comment != "" {
		line += " / " + c.Comment
	}
	buf.WriteString(pad(line, cardSize))
}

// formatFloat renders v so that it always reads back as a real number.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'G', -1, 64)
	if strings.Contains(s, ".") {
		return s
	}
	if i := strings.IndexByte(s, 'E'); i >= 0 {
		return s[:i] + ".0" + s[i:]
	}
	return s + ".0"
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + string(bytes.Repeat([]byte{' '}, n-len(s)))
}

func padBlock(b []byte, fill byte) []byte {
	rem := len(b) % blockSize
	if rem == 0 {
		return b
	}
	return append(b, bytes.Repeat([]byte{fill}, blockSize-rem)...)
}
