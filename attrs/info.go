// Package attrs implements the columnar attribute storage backing a
// particle block: an immutable descriptor set (AttributesInfo) and the
// per-block arrays it describes (AttributeArraysCore / AttributeArrays).
package attrs

// KillStateAttr and BirthTimeAttr are the two attributes every particle
// type carries regardless of what the host declares.
const (
	KillStateAttr = "Kill State"
	BirthTimeAttr = "Birth Time"
)

// Info describes, for one particle type, the ordered set of byte-valued,
// float-valued and float3-valued attribute names. Names are unique across
// kinds. An Info value is immutable once built.
type Info struct {
	byteNames   []string
	floatNames  []string
	float3Names []string

	byteIndex   map[string]int
	floatIndex  map[string]int
	float3Index map[string]int
}

// NewInfo builds an Info from explicit name lists, deduplicating while
// preserving first-seen order. Required attributes are NOT added
// automatically; callers building a type's descriptor set are expected to
// union in KillStateAttr/BirthTimeAttr themselves (see stepdesc.go's
// validate).
func NewInfo(byteNames, floatNames, float3Names []string) Info {
	info := Info{
		byteNames:   dedup(byteNames),
		floatNames:  dedup(floatNames),
		float3Names: dedup(float3Names),
	}
	info.byteIndex = indexOf(info.byteNames)
	info.floatIndex = indexOf(info.floatNames)
	info.float3Index = indexOf(info.float3Names)
	return info
}

func dedup(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func indexOf(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}

// ByteAttributes, FloatAttributes and Float3Attributes return the ordered
// attribute names of each kind. The returned slices must not be mutated.
func (info Info) ByteAttributes() []string   { return info.byteNames }
func (info Info) FloatAttributes() []string  { return info.floatNames }
func (info Info) Float3Attributes() []string { return info.float3Names }

// ByteCount, FloatCount and Float3Count report how many attributes of each
// kind the descriptor set holds.
func (info Info) ByteCount() int   { return len(info.byteNames) }
func (info Info) FloatCount() int  { return len(info.floatNames) }
func (info Info) Float3Count() int { return len(info.float3Names) }

// IndexOfByte, IndexOfFloat and IndexOfFloat3 return the position of name
// within their kind's ordered list, or -1 if the attribute is not
// declared.
func (info Info) IndexOfByte(name string) int   { return lookup(info.byteIndex, name) }
func (info Info) IndexOfFloat(name string) int  { return lookup(info.floatIndex, name) }
func (info Info) IndexOfFloat3(name string) int { return lookup(info.float3Index, name) }

func lookup(m map[string]int, name string) int {
	if i, ok := m[name]; ok {
		return i
	}
	return -1
}

// HasByte, HasFloat and HasFloat3 report whether name is declared in that
// kind.
func (info Info) HasByte(name string) bool   { return info.IndexOfByte(name) >= 0 }
func (info Info) HasFloat(name string) bool  { return info.IndexOfFloat(name) >= 0 }
func (info Info) HasFloat3(name string) bool { return info.IndexOfFloat3(name) >= 0 }

// UnionWith returns a new Info containing every attribute declared in
// info or other, preserving info's attributes first in their original
// order followed by any new ones from other.
func (info Info) UnionWith(other Info) Info {
	return NewInfo(
		append(append([]string{}, info.byteNames...), other.byteNames...),
		append(append([]string{}, info.floatNames...), other.floatNames...),
		append(append([]string{}, info.float3Names...), other.float3Names...),
	)
}

// Equal reports whether info and other declare the same attributes of
// each kind, in the same order.
func (info Info) Equal(other Info) bool {
	return stringsEqual(info.byteNames, other.byteNames) &&
		stringsEqual(info.floatNames, other.floatNames) &&
		stringsEqual(info.float3Names, other.float3Names)
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
