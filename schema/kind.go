package schema

// Kind is a primitive storage kind. Every type-inheritance chain terminates
// at exactly one Kind.
type Kind uint8

// Primitive storage kinds, named the way schema documents spell them.
const (
	KindInvalid Kind = iota
	KindString
	KindText
	KindInteger
	KindBigInteger
	KindSmallInteger
	KindFloat
	KindNumeric
	KindBoolean
	KindDate
	KindDateTime
	KindTime
	KindUUID
	KindJSON
	KindBytes
	endKinds
)

var kindNames = [...]string{
	KindInvalid:      "Invalid",
	KindString:       "String",
	KindText:         "Text",
	KindInteger:      "Integer",
	KindBigInteger:   "BigInteger",
	KindSmallInteger: "SmallInteger",
	KindFloat:        "Float",
	KindNumeric:      "Numeric",
	KindBoolean:      "Boolean",
	KindDate:         "Date",
	KindDateTime:     "DateTime",
	KindTime:         "Time",
	KindUUID:         "UUID",
	KindJSON:         "JSON",
	KindBytes:        "Bytes",
}

// String returns the document spelling of the kind.
func (k Kind) String() string {
	if k < endKinds {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// Valid reports whether k is a declared primitive kind.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < endKinds
}

// Numeric reports whether the kind stores a numeric value.
func (k Kind) Numeric() bool {
	switch k {
	case KindInteger, KindBigInteger, KindSmallInteger, KindFloat, KindNumeric:
		return true
	}
	return false
}

// Sized reports whether the kind accepts a length attribute.
func (k Kind) Sized() bool {
	return k == KindString || k == KindBytes
}

var primitives = func() map[string]Kind {
	m := make(map[string]Kind, int(endKinds))
	for k := KindString; k < endKinds; k++ {
		m[k.String()] = k
	}
	return m
}()

// KindOf returns the primitive kind for the given document name, or
// KindInvalid if the name is not a primitive.
func KindOf(name string) Kind {
	return primitives[name]
}
