// internal/testutil/pdf.go
package testutil

import (
	"bytes"
	"compress/zlib"
	"io"
	"strings"
	"unicode/utf16"
)

// PDFText concatena el contenido de todos los streams de un PDF, descomprimiendo
// los que usan Flate. Sirve para buscar operadores de texto como "(Title)Tj".
func PDFText(data []byte) string {
	var sb strings.Builder
	rest := data
	for {
		start := bytes.Index(rest, []byte("stream\n"))
		if start == -1 {
			break
		}
		rest = rest[start+len("stream\n"):]
		end := bytes.Index(rest, []byte("endstream"))
		if end == -1 {
			break
		}
		raw := rest[:end]
		rest = rest[end+len("endstream"):]

		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			sb.Write(raw)
			continue
		}
		inflated, err := io.ReadAll(zr)
		zr.Close()
		if err != nil && len(inflated) == 0 {
			sb.Write(raw)
			continue
		}
		sb.Write(inflated)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PDFTextOps cuenta cuántas veces se dibuja exactamente text con un operador
// Tj, tanto con fuentes estándar (bytes tal cual) como con fuentes UTF-8
// embebidas (UTF-16BE).
func PDFTextOps(data []byte, text string) int {
	content := PDFText(data)
	count := 0
	for _, enc := range []string{text, utf16BE(text)} {
		for _, op := range []string{")Tj", ") Tj"} {
			count += strings.Count(content, "("+escapePDF(enc)+op)
		}
	}
	return count
}

func utf16BE(s string) string {
	var b strings.Builder
	for _, u := range utf16.Encode([]rune(s)) {
		b.WriteByte(byte(u >> 8))
		b.WriteByte(byte(u))
	}
	return b.String()
}

func escapePDF(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "(", "\\(")
	s = strings.ReplaceAll(s, ")", "\\)")
	return strings.ReplaceAll(s, "\r", "\\r")
}
