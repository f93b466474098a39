package filetype

import "testing"

func TestDetect_PDF(t *testing.T) {
	info, err := New().Detect([]byte("%PDF-1.4\n%fake body"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.IsPDF || !info.Supported {
		t.Errorf("PDF not recognized: %+v", info)
	}
	if info.MIMEType != "application/pdf" {
		t.Errorf("mime = %q", info.MIMEType)
	}
}

func TestDetect_RejectsOther(t *testing.T) {
	for _, data := range [][]byte{
		[]byte("plain text, definitely not a pdf"),
		{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a},
	} {
		info, err := New().Detect(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if info.IsPDF || info.Supported {
			t.Errorf("accepted non-PDF: %+v", info)
		}
	}
}

func TestDetect_Empty(t *testing.T) {
	if _, err := New().Detect(nil); err == nil {
		t.Error("expected error for empty upload")
	}
}
