// Package fileinfo derives identifiers, coarse type categories and display
// sizes for uploaded files.
package fileinfo

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// typeByExt maps lower-cased filename extensions to coarse categories.
var typeByExt = map[string]string{
	".pdf":  "pdf",
	".doc":  "doc",
	".docx": "doc",
	".ppt":  "ppt",
	".pptx": "ppt",
	".xls":  "xls",
	".xlsx": "xls",
	".txt":  "txt",
	".zip":  "zip",
	".rar":  "zip",
	".7z":   "zip",
	".jpg":  "image",
	".jpeg": "image",
	".png":  "image",
	".gif":  "image",
	".bmp":  "image",
}

// NewID returns a fresh globally unique file identifier.
func NewID() string {
	return uuid.NewString()
}

// Ext returns the lower-cased extension of name, including the leading dot.
// Names without an extension yield the empty string.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// TypeOf classifies a filename by its extension. Unknown or missing
// extensions classify as "other".
func TypeOf(name string) string {
	if t, ok := typeByExt[Ext(name)]; ok {
		return t
	}
	return "other"
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count as "<value> <unit>" with two decimal
// places, dividing by 1024 until the value fits the unit. Zero is the
// special case "0 Bytes".
func FormatSize(size int64) string {
	if size == 0 {
		return "0 Bytes"
	}
	v := float64(size)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, sizeUnits[i])
}
