package domain

import "testing"

// TestSetResponseFlagLaw covers spec.md §8's response flag law: QR and AA
// set, RCODE written into RCode, Z/RA cleared, TC left untouched.
func TestSetResponseFlagLaw(t *testing.T) {
	h := Header{RD: true, TC: true}
	h.SetResponse(RcodeNXDomain)

	if !h.QR {
		t.Error("QR must be set")
	}
	if !h.AA {
		t.Error("AA must be set")
	}
	if h.Z {
		t.Error("Z must be cleared")
	}
	if h.RA {
		t.Error("RA must be cleared")
	}
	if h.RCode != RcodeNXDomain {
		t.Errorf("RCode = %d, want %d", h.RCode, RcodeNXDomain)
	}
	if !h.RD {
		t.Error("RD must be preserved")
	}
	if !h.TC {
		t.Error("TC must be left untouched by SetResponse, it is the dispatcher's to set")
	}
}

func TestSetResponseDoesNotForceTCFalse(t *testing.T) {
	h := Header{}
	h.SetResponse(RcodeNoError)
	if h.TC {
		t.Error("TC should remain false when the request wasn't truncating and nothing else set it")
	}
}
