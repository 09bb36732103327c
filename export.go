// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/gogpu/sketch/internal/image"
)

// DefaultJPEGQuality is the quality ExportJPEG uses for a zero quality.
const DefaultJPEGQuality = 92

// frameBuf returns the composited frame as a buffer.
func (s *Session) frameBuf() *image.ImageBuf {
	return image.FromImage(s.Frame())
}

// ExportPNG writes the composited frame as a PNG, keeping transparency.
func (s *Session) ExportPNG(w io.Writer) error {
	if err := s.frameBuf().EncodePNG(w); err != nil {
		return fmt.Errorf("%w: export PNG: %w", ErrStorageFailure, err)
	}
	return nil
}

// SavePNG writes the composited frame to a PNG file at path.
func (s *Session) SavePNG(path string) error {
	if err := s.frameBuf().SavePNG(path); err != nil {
		return fmt.Errorf("%w: save PNG: %w", ErrStorageFailure, err)
	}
	return nil
}

// ExportJPEG writes the composited frame as a JPEG flattened on white.
// A quality of 0 selects DefaultJPEGQuality.
func (s *Session) ExportJPEG(w io.Writer, quality int) error {
	if quality == 0 {
		quality = DefaultJPEGQuality
	}
	if err := s.frameBuf().EncodeJPEG(w, quality, color.White); err != nil {
		return fmt.Errorf("%w: export JPEG: %w", ErrStorageFailure, err)
	}
	return nil
}

// ExportPDF writes a one-page PDF whose page is the canvas size in points
// and shows the frame flattened on white.
func (s *Session) ExportPDF(w io.Writer, title string) error {
	buf := s.frameBuf()
	var img bytes.Buffer
	flat, err := image.FromRaw(buf.Flatten(color.White).Pix, buf.Width(), buf.Height())
	if err != nil {
		return fmt.Errorf("%w: export PDF: %w", ErrStorageFailure, err)
	}
	if err := flat.EncodePNG(&img); err != nil {
		return fmt.Errorf("%w: export PDF: %w", ErrStorageFailure, err)
	}

	wd, ht := float64(buf.Width()), float64(buf.Height())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetCreator("sketch", true)
	if title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("frame", opts, &img)
	pdf.ImageOptions("frame", 0, 0, wd, ht, false, opts, 0, "")
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: export PDF: %w", ErrStorageFailure, err)
	}
	return nil
}
