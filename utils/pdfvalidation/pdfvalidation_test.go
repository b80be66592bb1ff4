package pdfvalidation

import (
	"bytes"
	"testing"
)

func TestValidatePDFBytesRejectsMissingHeader(t *testing.T) {
	result := ValidatePDFBytes([]byte("hello world"), CoursePacketLimits)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if result.Error != "Invalid PDF file: missing PDF header" {
		t.Errorf("Error = %q", result.Error)
	}
}

func TestValidatePDFBytesRejectsOversize(t *testing.T) {
	limits := PDFLimits{MaxFileSizeMB: 0, MaxPages: 10, DocumentTypeName: "test"}
	result := ValidatePDFBytes([]byte("%PDF-1.4"), limits)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if result.FileSize != 8 {
		t.Errorf("FileSize = %d, want 8", result.FileSize)
	}
}

func TestValidatePDFBytesRejectsGarbageBody(t *testing.T) {
	result := ValidatePDFBytes([]byte("%PDF-1.4\nnot really a pdf"), CoursePacketLimits)
	if result.Valid {
		t.Fatal("expected invalid result for unparsable body")
	}
}

func TestSanitizePDFTrimsTrailingBytes(t *testing.T) {
	content := []byte("%PDF-1.4\n...\n%%EOF\r\ngarbage")
	got := sanitizePDF(content)
	want := []byte("%PDF-1.4\n...\n%%EOF\r\n")
	if !bytes.Equal(got, want) {
		t.Errorf("sanitizePDF() = %q, want %q", got, want)
	}
}
