package schema

import "fmt"

// Mask is a 9-bit Unix-style permission value split into three 3-bit
// triplets: owner, group and other. Within each triplet, 4 grants read,
// 2 grants write, and 1 is reserved and should stay zero.
//
// Masks are declared in octal, e.g. 0o604: the owner may read and write,
// the group has no access, and everyone else may read.
type Mask uint16

// Permission bit groups.
const (
	// ReadBits selects the read bit of every triplet.
	ReadBits Mask = 0o444

	// WriteBits selects the write bit of every triplet.
	WriteBits Mask = 0o222
)

// Role triplet selectors. A role mask returned for a (record, subject)
// pair selects which triplet's semantics apply to that subject.
const (
	// RoleOwner selects the owner triplet.
	RoleOwner Mask = 0o700

	// RoleGroup selects the group triplet.
	RoleGroup Mask = 0o070

	// RoleOther selects the other triplet.
	RoleOther Mask = 0o007
)

// Defaults applied when a schema or field declares no explicit mask.
const (
	// DefaultModelMask allows owner and other to read and write.
	DefaultModelMask Mask = 0o606

	// DefaultFieldMask allows the owner to read and write,
	// and everyone else to read.
	DefaultFieldMask Mask = 0o604

	// DefaultRole is the role granted to subjects with no
	// specific relationship to a record.
	DefaultRole Mask = RoleOther
)

// CanRead reports whether the mask grants read access for the given role.
func (m Mask) CanRead(role Mask) bool {
	return m&role&ReadBits != 0
}

// CanWrite reports whether the mask grants write access for the given role.
func (m Mask) CanWrite(role Mask) bool {
	return m&role&WriteBits != 0
}

// String returns the octal representation of the mask, e.g. "0o604".
func (m Mask) String() string {
	return fmt.Sprintf("0o%03o", uint16(m))
}
