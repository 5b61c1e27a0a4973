package util

import "testing"

func TestNullInt64FromPtr(t *testing.T) {
	if got := NullInt64FromPtr(nil); got.Valid {
		t.Error("nil pointer should produce an invalid NullInt64")
	}

	v := int64(42)
	got := NullInt64FromPtr(&v)
	if !got.Valid || got.Int64 != 42 {
		t.Errorf("NullInt64FromPtr(&42) = %+v, want valid 42", got)
	}
}

func TestNullInt64FromID(t *testing.T) {
	if got := NullInt64FromID(0); got.Valid {
		t.Error("zero ID should produce an invalid NullInt64")
	}

	got := NullInt64FromID(7)
	if !got.Valid || got.Int64 != 7 {
		t.Errorf("NullInt64FromID(7) = %+v, want valid 7", got)
	}
}
