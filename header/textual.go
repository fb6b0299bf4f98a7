package header

import (
	"fmt"
	"strings"
)

const (
	cardLength = 80
	cardCount  = TextualSize / cardLength
)

// ebcdicPairs maps the EBCDIC (CP037) code points that occur in SEG-Y card
// images to their ASCII equivalents.
var ebcdicPairs = map[byte]byte{
	0x40: ' ', 0x4B: '.', 0x4C: '<', 0x4D: '(', 0x4E: '+', 0x4F: '|',
	0x50: '&', 0x5A: '!', 0x5B: '$', 0x5C: '*', 0x5D: ')', 0x5E: ';',
	0x60: '-', 0x61: '/', 0x6B: ',', 0x6C: '%', 0x6D: '_', 0x6E: '>',
	0x6F: '?', 0x7A: ':', 0x7B: '#', 0x7C: '@', 0x7D: '\'', 0x7E: '=',
	0x7F: '"',
	0x81: 'a', 0x82: 'b', 0x83: 'c', 0x84: 'd', 0x85: 'e', 0x86: 'f',
	0x87: 'g', 0x88: 'h', 0x89: 'i',
	0x91: 'j', 0x92: 'k', 0x93: 'l', 0x94: 'm', 0x95: 'n', 0x96: 'o',
	0x97: 'p', 0x98: 'q', 0x99: 'r',
	0xA2: 's', 0xA3: 't', 0xA4: 'u', 0xA5: 'v', 0xA6: 'w', 0xA7: 'x',
	0xA8: 'y', 0xA9: 'z',
	0xC1: 'A', 0xC2: 'B', 0xC3: 'C', 0xC4: 'D', 0xC5: 'E', 0xC6: 'F',
	0xC7: 'G', 0xC8: 'H', 0xC9: 'I',
	0xD1: 'J', 0xD2: 'K', 0xD3: 'L', 0xD4: 'M', 0xD5: 'N', 0xD6: 'O',
	0xD7: 'P', 0xD8: 'Q', 0xD9: 'R',
	0xE2: 'S', 0xE3: 'T', 0xE4: 'U', 0xE5: 'V', 0xE6: 'W', 0xE7: 'X',
	0xE8: 'Y', 0xE9: 'Z',
	0xF0: '0', 0xF1: '1', 0xF2: '2', 0xF3: '3', 0xF4: '4', 0xF5: '5',
	0xF6: '6', 0xF7: '7', 0xF8: '8', 0xF9: '9',
}

var ebcdicToASCII = buildEBCDICTable()

func buildEBCDICTable() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = ' '
	}
	for e, a := range ebcdicPairs {
		t[e] = a
	}
	return t
}

// IsEBCDIC guesses whether a textual header buffer is EBCDIC encoded.
// Standard card images begin each line with 'C', so an EBCDIC 'C' in the
// first column is decisive; otherwise the guess falls back to how much of
// the buffer is printable ASCII.
func IsEBCDIC(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if buf[0] == 0xC3 { // EBCDIC 'C'
		return true
	}
	if buf[0] == 'C' {
		return false
	}
	printable := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7E {
			printable++
		}
	}
	return printable < len(buf)*3/4
}

// DecodeTextual renders the 3200-byte textual header as 40 newline-separated
// lines of 80 characters, transcoding from EBCDIC when the buffer appears to
// be EBCDIC encoded. Unmappable bytes become spaces.
func DecodeTextual(buf []byte) (string, error) {
	if len(buf) != TextualSize {
		return "", fmt.Errorf("header: textual header needs %d bytes, have %d", TextualSize, len(buf))
	}

	decoded := make([]byte, TextualSize)
	if IsEBCDIC(buf) {
		for i, b := range buf {
			decoded[i] = ebcdicToASCII[b]
		}
	} else {
		for i, b := range buf {
			if b >= 0x20 && b <= 0x7E {
				decoded[i] = b
			} else {
				decoded[i] = ' '
			}
		}
	}

	var sb strings.Builder
	sb.Grow(TextualSize + cardCount)
	for i := 0; i < cardCount; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.Write(decoded[i*cardLength : (i+1)*cardLength])
	}
	return sb.String(), nil
}

// EncodeTextualASCII builds a textual header buffer from up to 40 lines of
// ASCII text, padding each card with spaces. Used by tooling that fabricates
// headers; the reader never calls it.
func EncodeTextualASCII(lines []string) ([]byte, error) {
	if len(lines) > cardCount {
		return nil, fmt.Errorf("header: textual header holds %d lines, got %d", cardCount, len(lines))
	}
	buf := make([]byte, TextualSize)
	for i := range buf {
		buf[i] = ' '
	}
	for i, line := range lines {
		if len(line) > cardLength {
			return nil, fmt.Errorf("header: line %d exceeds %d characters", i+1, cardLength)
		}
		copy(buf[i*cardLength:], line)
	}
	return buf, nil
}
