package shard_test

import (
	"testing"

	"github.com/xraph/gridbill/shard"
)

func TestResolveFamily(t *testing.T) {
	tests := []struct {
		location string
		want     shard.Family
	}{
		{"rajshahi", shard.FamilyNesco},
		{"nesco", shard.FamilyNesco},
		{"Rajshahi", shard.FamilyNesco},
		{"  NESCO  ", shard.FamilyNesco},
		{"dhaka", shard.FamilyDesco},
		{"desco", shard.FamilyDesco},
		{"DHAKA", shard.FamilyDesco},
		{"khulna", shard.FamilyPBS},
		{"other", shard.FamilyPBS},
		{"", shard.FamilyPBS},
		{"   ", shard.FamilyPBS},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			if got := shard.ResolveFamily(tt.location); got != tt.want {
				t.Errorf("ResolveFamily(%q) = %q, want %q", tt.location, got, tt.want)
			}
		})
	}
}

func TestResolveBucket(t *testing.T) {
	tests := []struct {
		id   int64
		want shard.Bucket
	}{
		{1, shard.Bucket1},
		{100, shard.Bucket1},
		{101, shard.Bucket2},
		{200, shard.Bucket2},
		{201, shard.Bucket3},
		{300, shard.Bucket3},
		{301, shard.BucketDefault},
		{0, shard.BucketDefault},
		{-5, shard.BucketDefault},
		{99999, shard.BucketDefault},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			if got := shard.ResolveBucket(tt.id); got != tt.want {
				t.Errorf("ResolveBucket(%d) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		location string
		id       int64
		want     shard.Key
	}{
		{"rajshahi", 1, "Nesco1"},
		{"nesco", 150, "Nesco2"},
		{"dhaka", 250, "Desco3"},
		{"desco", 100, "Desco1"},
		{"sylhet", 201, "PBS3"},
		{"", 50, "PBS1"},
		{"dhaka", 301, "Descodefault"},
		{"rajshahi", 0, "Nescodefault"},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			if got := shard.Resolve(tt.location, tt.id); got != tt.want {
				t.Errorf("Resolve(%q, %d) = %q, want %q", tt.location, tt.id, got, tt.want)
			}
		})
	}
}

func TestResolveLocation(t *testing.T) {
	if got := shard.ResolveLocation("dhaka"); got != shard.Key("Desco1") {
		t.Errorf("ResolveLocation(dhaka) = %q, want Desco1", got)
	}
	if got := shard.ResolveLocation("anywhere"); got != shard.Key("PBS1") {
		t.Errorf("ResolveLocation(anywhere) = %q, want PBS1", got)
	}
}

func TestKeyComponents(t *testing.T) {
	tests := []struct {
		key    shard.Key
		family shard.Family
		bucket shard.Bucket
		live   bool
	}{
		{"Nesco1", shard.FamilyNesco, shard.Bucket1, true},
		{"Desco2", shard.FamilyDesco, shard.Bucket2, true},
		{"PBS3", shard.FamilyPBS, shard.Bucket3, true},
		{"PBSdefault", shard.FamilyPBS, shard.BucketDefault, false},
		{"Nescodefault", shard.FamilyNesco, shard.BucketDefault, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			if got := tt.key.Family(); got != tt.family {
				t.Errorf("Family() = %q, want %q", got, tt.family)
			}
			if got := tt.key.Bucket(); got != tt.bucket {
				t.Errorf("Bucket() = %q, want %q", got, tt.bucket)
			}
			if got := tt.key.Live(); got != tt.live {
				t.Errorf("Live() = %v, want %v", got, tt.live)
			}
		})
	}
}

func TestFamilyKeysOrder(t *testing.T) {
	got := shard.FamilyKeys(shard.FamilyDesco)
	want := []shard.Key{"Desco1", "Desco2", "Desco3"}
	if len(got) != len(want) {
		t.Fatalf("FamilyKeys returned %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FamilyKeys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCatalog(t *testing.T) {
	keys := shard.Catalog()
	if len(keys) != 9 {
		t.Fatalf("Catalog returned %d keys, want 9", len(keys))
	}
	seen := make(map[shard.Key]bool, 9)
	for _, k := range keys {
		if seen[k] {
			t.Errorf("duplicate key %q in catalog", k)
		}
		seen[k] = true
		if !k.Live() {
			t.Errorf("catalog key %q is not live", k)
		}
	}
	if keys[0] != "Nesco1" || keys[8] != "PBS3" {
		t.Errorf("unexpected catalog ordering: %v", keys)
	}
}
