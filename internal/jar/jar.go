// Package jar packages a compiled class file into a minimal runnable JAR:
// a manifest declaring Main-Class, the class file at the archive root,
// and a second copy nested under a lowercased directory named after the
// class, matching how javac/jar lay out a single-class program.
//
// No third-party archive library in the example corpus covers this; zip
// packaging with a synthetic manifest is narrow enough that the standard
// library's archive/zip is the direct, idiomatic choice here.
package jar

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

// Write packages classBytes (for class named className) as a JAR and
// writes it to w.
func Write(w io.Writer, className string, classBytes []byte) error {
	zw := zip.NewWriter(w)

	manifest := fmt.Sprintf("Manifest-Version: 1.0\nMain-Class: %s\n", className)
	if err := writeEntry(zw, "META-INF/MANIFEST.MF", []byte(manifest)); err != nil {
		return err
	}

	entryName := className + ".class"
	if err := writeEntry(zw, entryName, classBytes); err != nil {
		return err
	}

	nested := strings.ToLower(className) + "/" + entryName
	if err := writeEntry(zw, nested, classBytes); err != nil {
		return err
	}

	return zw.Close()
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("jar: create entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}
