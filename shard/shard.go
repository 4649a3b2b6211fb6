// Package shard maps customer locations and ids onto the fixed partition
// catalog. Routing is static range sharding: a location resolves to one of
// three families, and an id range selects one of three numbered buckets
// inside the family. The mapping is a pure total function: it performs no
// I/O and never fails for any input.
package shard

import "strings"

// Family is a geographic partition group.
type Family string

// The three location families.
const (
	FamilyNesco Family = "Nesco"
	FamilyDesco Family = "Desco"
	FamilyPBS   Family = "PBS"
)

// Bucket is the numeric sub-partition within a family.
type Bucket string

// Bucket values. BucketDefault is the sentinel for ids outside the modeled
// capacity: no partition backs it, so lookups against it are a guaranteed
// miss and writes must be rejected by the caller (see gridbill.ErrOutOfRange).
const (
	Bucket1       Bucket = "1"
	Bucket2       Bucket = "2"
	Bucket3       Bucket = "3"
	BucketDefault Bucket = "default"
)

// Key names one physical partition, e.g. "Nesco1".
type Key string

// Family returns the family component of the key.
func (k Key) Family() Family {
	switch {
	case strings.HasPrefix(string(k), string(FamilyNesco)):
		return FamilyNesco
	case strings.HasPrefix(string(k), string(FamilyDesco)):
		return FamilyDesco
	default:
		return FamilyPBS
	}
}

// Bucket returns the bucket component of the key.
func (k Key) Bucket() Bucket {
	return Bucket(strings.TrimPrefix(string(k), string(k.Family())))
}

// Live reports whether the key names a real partition in the catalog.
// The default bucket is not live.
func (k Key) Live() bool {
	return k.Bucket() != BucketDefault
}

func (k Key) String() string { return string(k) }

// ResolveFamily normalizes a location string to its family. Matching is
// case- and whitespace-insensitive; unknown locations fall to PBS.
func ResolveFamily(location string) Family {
	switch strings.ToLower(strings.TrimSpace(location)) {
	case "rajshahi", "nesco":
		return FamilyNesco
	case "dhaka", "desco":
		return FamilyDesco
	default:
		return FamilyPBS
	}
}

// ResolveBucket maps an id to its bucket. Ids outside [1,300], including
// zero and negatives, fall to the default bucket.
func ResolveBucket(id int64) Bucket {
	switch {
	case id >= 1 && id <= 100:
		return Bucket1
	case id >= 101 && id <= 200:
		return Bucket2
	case id >= 201 && id <= 300:
		return Bucket3
	default:
		return BucketDefault
	}
}

// Resolve maps (location, id) to a partition key.
func Resolve(location string, id int64) Key {
	return Join(ResolveFamily(location), ResolveBucket(id))
}

// ResolveLocation maps a location with no id (a not-yet-numbered account)
// to the family's first bucket.
func ResolveLocation(location string) Key {
	return Join(ResolveFamily(location), Bucket1)
}

// Join concatenates a family and bucket into a key.
func Join(f Family, b Bucket) Key {
	return Key(string(f) + string(b))
}

// FamilyKeys returns the family's three live partition keys in numeric order.
func FamilyKeys(f Family) []Key {
	return []Key{
		Join(f, Bucket1),
		Join(f, Bucket2),
		Join(f, Bucket3),
	}
}

// Catalog returns all nine live partition keys, grouped by family in
// Nesco, Desco, PBS order with buckets ascending.
func Catalog() []Key {
	keys := make([]Key, 0, 9)
	for _, f := range []Family{FamilyNesco, FamilyDesco, FamilyPBS} {
		keys = append(keys, FamilyKeys(f)...)
	}
	return keys
}
