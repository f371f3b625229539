package protocol

import "io"

// Slot is a single inventory/window item stack. ItemID -1 denotes an empty
// slot, in which case Count/Damage are not present on the wire.
type Slot struct {
	ItemID int16
	Count  byte
	Damage int16
}

func ReadSlot(r io.Reader) (Slot, error) {
	id, err := ReadI16(r)
	if err != nil {
		return Slot{}, err
	}
	if id == -1 {
		return Slot{ItemID: -1}, nil
	}
	count, err := ReadU8(r)
	if err != nil {
		return Slot{}, err
	}
	damage, err := ReadI16(r)
	if err != nil {
		return Slot{}, err
	}
	return Slot{ItemID: id, Count: count, Damage: damage}, nil
}

func WriteSlot(w io.Writer, s Slot) error {
	if err := WriteI16(w, s.ItemID); err != nil {
		return err
	}
	if s.ItemID == -1 {
		return nil
	}
	if err := WriteU8(w, s.Count); err != nil {
		return err
	}
	return WriteI16(w, s.Damage)
}

// MetadataKind selects which of the seven wire shapes a metadata entry carries.
type MetadataKind byte

const (
	MetaByte        MetadataKind = 0
	MetaShort       MetadataKind = 1
	MetaInt         MetadataKind = 2
	MetaFloat       MetadataKind = 3
	MetaString      MetadataKind = 4
	MetaSlot        MetadataKind = 5
	MetaBlockTriple MetadataKind = 6
)

// MetadataTerminator ends an entity metadata stream.
const MetadataTerminator = 0x7F

// MetadataEntry is one key/value pair from an entity metadata stream
// (spec.md §4.3 "Metadata (entity) stream").
type MetadataEntry struct {
	Index byte
	Kind  MetadataKind

	Byte    int8
	Short   int16
	Int     int32
	Float   float32
	String  string
	Slot    Slot
	X, Y, Z int32
}

// ReadEntityMetadata parses a 0x7F-terminated tagged stream without needing
// to know in advance which keys the entity uses.
func ReadEntityMetadata(r io.Reader) ([]MetadataEntry, error) {
	var entries []MetadataEntry
	for {
		tag, err := ReadU8(r)
		if err != nil {
			return nil, err
		}
		if tag == MetadataTerminator {
			return entries, nil
		}
		kind := MetadataKind(tag >> 5)
		index := tag & 0x1F
		e := MetadataEntry{Index: index, Kind: kind}
		switch kind {
		case MetaByte:
			v, err := ReadI8(r)
			if err != nil {
				return nil, err
			}
			e.Byte = v
		case MetaShort:
			v, err := ReadI16(r)
			if err != nil {
				return nil, err
			}
			e.Short = v
		case MetaInt:
			v, err := ReadI32(r)
			if err != nil {
				return nil, err
			}
			e.Int = v
		case MetaFloat:
			v, err := ReadF32(r)
			if err != nil {
				return nil, err
			}
			e.Float = v
		case MetaString:
			v, err := ReadString(r)
			if err != nil {
				return nil, err
			}
			e.String = v
		case MetaSlot:
			v, err := ReadSlot(r)
			if err != nil {
				return nil, err
			}
			e.Slot = v
		case MetaBlockTriple:
			x, err := ReadI32(r)
			if err != nil {
				return nil, err
			}
			y, err := ReadI32(r)
			if err != nil {
				return nil, err
			}
			z, err := ReadI32(r)
			if err != nil {
				return nil, err
			}
			e.X, e.Y, e.Z = x, y, z
		default:
			return nil, errUnknownMetadataKind(kind)
		}
		entries = append(entries, e)
	}
}

// WriteEntityMetadata writes entries followed by the terminator byte.
func WriteEntityMetadata(w io.Writer, entries []MetadataEntry) error {
	for _, e := range entries {
		tag := byte(e.Kind)<<5 | (e.Index & 0x1F)
		if err := WriteU8(w, tag); err != nil {
			return err
		}
		var err error
		switch e.Kind {
		case MetaByte:
			err = WriteI8(w, e.Byte)
		case MetaShort:
			err = WriteI16(w, e.Short)
		case MetaInt:
			err = WriteI32(w, e.Int)
		case MetaFloat:
			err = WriteF32(w, e.Float)
		case MetaString:
			err = WriteString(w, e.String)
		case MetaSlot:
			err = WriteSlot(w, e.Slot)
		case MetaBlockTriple:
			if err = WriteI32(w, e.X); err == nil {
				if err = WriteI32(w, e.Y); err == nil {
					err = WriteI32(w, e.Z)
				}
			}
		default:
			err = errUnknownMetadataKind(e.Kind)
		}
		if err != nil {
			return err
		}
	}
	return WriteU8(w, MetadataTerminator)
}

func errUnknownMetadataKind(k MetadataKind) error {
	return &UnknownMetadataKindError{Kind: k}
}

// UnknownMetadataKindError reports a metadata tag whose type bits don't map
// to one of the seven known wire shapes.
type UnknownMetadataKindError struct {
	Kind MetadataKind
}

func (e *UnknownMetadataKindError) Error() string {
	return "protocol: unknown entity metadata kind"
}
