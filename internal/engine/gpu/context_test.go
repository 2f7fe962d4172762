package gpu

import "testing"

func TestContextTouch(t *testing.T) {
	c := NewContext()
	var h Handle

	if c.IsValid(&h) {
		t.Fatal("zero handle is valid")
	}
	if c.Touch(&h) {
		t.Fatal("first Touch() = true, want false")
	}
	if !c.Touch(&h) {
		t.Fatal("second Touch() = false, want true")
	}
	if !c.IsValid(&h) {
		t.Error("touched handle not valid")
	}
}

func TestContextReset(t *testing.T) {
	c := NewContext()
	h := Handle{ID: 7}
	c.Touch(&h)

	c.Reset()
	if c.Generation() != 2 {
		t.Errorf("Generation() = %d, want 2", c.Generation())
	}
	if c.IsValid(&h) {
		t.Error("handle survived Reset")
	}
	if c.Touch(&h) {
		t.Error("Touch() after Reset = true, want false")
	}
	if h.Timestamp != c.Generation() {
		t.Errorf("Timestamp = %d, want %d", h.Timestamp, c.Generation())
	}
}

func TestCapabilitiesCanGenerateMipmaps(t *testing.T) {
	tests := []struct {
		caps Capabilities
		want bool
	}{
		{Capabilities{}, false},
		{Capabilities{AutoMipmap: true}, true},
		{Capabilities{FramebufferObject: true}, true},
	}
	for _, tt := range tests {
		if got := tt.caps.CanGenerateMipmaps(); got != tt.want {
			t.Errorf("%+v.CanGenerateMipmaps() = %v, want %v", tt.caps, got, tt.want)
		}
	}
}
