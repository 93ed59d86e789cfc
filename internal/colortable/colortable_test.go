package colortable

import "testing"

func TestDefaultOverrides(t *testing.T) {
	tbl := Default()
	cases := map[uint8]uint32{
		0:  0x303030FF,
		4:  0x3030C0FF,
		7:  0xA0A0A0FF,
		8:  0x707070FF,
		15: 0xE0E0E0FF,
	}
	for idx, want := range cases {
		if got := tbl.RGBA(idx); got != want {
			t.Errorf("RGBA(%d) = %#08x, want %#08x", idx, got, want)
		}
	}
}

func TestLoadRejectsShortPalette(t *testing.T) {
	_, err := Load("000000\nffffff\n")
	if err == nil {
		t.Fatal("expected error for short palette")
	}
}

func TestLoadRejectsBadHex(t *testing.T) {
	lines := ""
	for i := 0; i < 256; i++ {
		lines += "zzzzzz\n"
	}
	if _, err := Load(lines); err == nil {
		t.Fatal("expected error for invalid hex digits")
	}
}

func TestLoadRoundTrips256Entries(t *testing.T) {
	lines := ""
	for i := 0; i < 256; i++ {
		lines += "102030\n"
	}
	tbl, err := Load(lines)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Index 1 is not one of the override indices.
	want := uint32(0x102030FF)
	if got := tbl.RGBA(1); got != want {
		t.Errorf("RGBA(1) = %#08x, want %#08x", got, want)
	}
	// Index 0 is overridden regardless of input.
	if got := tbl.RGBA(0); got != 0x303030FF {
		t.Errorf("RGBA(0) = %#08x, want override 0x303030FF", got)
	}
}
