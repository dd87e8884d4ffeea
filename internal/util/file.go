package util

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/beevik/etree"
)

// ComicInfo is the subset of the ComicRack metadata written into each CBZ.
type ComicInfo struct {
	Series string
	Title  string
	Number string
	Web    string
}

// CreateCBZ zips the page files, in name order, into output. When info is
// given a ComicInfo.xml entry is added first.
func CreateCBZ(files []string, output string, info *ComicInfo) (err error) {
	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("cbz: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cbz: close %s: %w", output, cerr)
		}
	}()

	z := zip.NewWriter(out)
	defer func() {
		if cerr := z.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cbz: finish %s: %w", output, cerr)
		}
	}()

	pages := append([]string(nil), files...)
	sort.Strings(pages)

	if info != nil {
		if err := writeComicInfo(z, info, len(pages)); err != nil {
			return err
		}
	}

	for _, file := range pages {
		if err := addFileToZip(z, file); err != nil {
			return fmt.Errorf("cbz: add %s: %w", file, err)
		}
	}

	return nil
}

func writeComicInfo(z *zip.Writer, info *ComicInfo, pages int) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("ComicInfo")
	root.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	for _, f := range []struct{ tag, val string }{
		{"Series", info.Series},
		{"Title", info.Title},
		{"Number", info.Number},
		{"Web", info.Web},
		{"PageCount", strconv.Itoa(pages)},
	} {
		if f.val != "" {
			root.CreateElement(f.tag).SetText(f.val)
		}
	}
	doc.Indent(2)

	w, err := z.Create("ComicInfo.xml")
	if err != nil {
		return fmt.Errorf("cbz: comic info: %w", err)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("cbz: comic info: %w", err)
	}

	return nil
}

func addFileToZip(z *zip.Writer, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}

	header.Name = filepath.Base(file)
	header.Method = zip.Deflate

	w, err := z.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, f)
	return err
}
