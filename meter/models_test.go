package meter_test

import (
	"testing"

	"github.com/xraph/gridbill/meter"
)

func TestLocationPrefix(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"dhaka", "DH"},
		{"Dhaka", "DH"},
		{" DHAKA ", "DH"},
		{"rajshahi", "RH"},
		{"Rajshahi", "RH"},
		{"khulna", "AL"},
		{"other", "AL"},
		{"", "AL"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			if got := meter.LocationPrefix(tt.location); got != tt.want {
				t.Errorf("LocationPrefix(%q) = %q, want %q", tt.location, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		prefix string
		seq    int64
		want   string
	}{
		{"DH", 1, "DH_000001"},
		{"RH", 42, "RH_000042"},
		{"AL", 999999, "AL_999999"},
		{"AL", 1000000, "AL_1000000"}, // width grows past padding
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := meter.Format(tt.prefix, tt.seq); got != tt.want {
				t.Errorf("Format(%q, %d) = %q, want %q", tt.prefix, tt.seq, got, tt.want)
			}
		})
	}
}

func TestSequence(t *testing.T) {
	tests := []struct {
		meterNo string
		want    int64
	}{
		{"DH_000001", 1},
		{"RH_000042", 42},
		{"AL_999999", 999999},
		{"DH_1000000", 1000000},
		{"garbage", 0},
		{"DH_", 0},
		{"DH_notanumber", 0},
		{"", 0},
		{"DH_-5", 0}, // negative sequences are never valid
	}

	for _, tt := range tests {
		t.Run(tt.meterNo, func(t *testing.T) {
			if got := meter.Sequence(tt.meterNo); got != tt.want {
				t.Errorf("Sequence(%q) = %d, want %d", tt.meterNo, got, tt.want)
			}
		})
	}
}

func TestFormatSequenceRoundTrip(t *testing.T) {
	for _, seq := range []int64{1, 2, 100, 999999} {
		no := meter.Format("DH", seq)
		if got := meter.Sequence(no); got != seq {
			t.Errorf("Sequence(Format(DH, %d)) = %d", seq, got)
		}
	}
}
