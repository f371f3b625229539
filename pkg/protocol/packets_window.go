package protocol

import "io"

// WindowOpen (0x64, server->client).
type WindowOpen struct {
	WindowID   int8
	Type       int8
	Title      string
	SlotCount  int8
}

func (WindowOpen) PacketID() byte { return 0x64 }
func (p WindowOpen) EncodeBody(w io.Writer) error {
	if err := WriteI8(w, p.WindowID); err != nil {
		return err
	}
	if err := WriteI8(w, p.Type); err != nil {
		return err
	}
	if err := WriteString(w, p.Title); err != nil {
		return err
	}
	return WriteI8(w, p.SlotCount)
}
func decodeWindowOpen(r io.Reader) (Packet, error) {
	var p WindowOpen
	var err error
	if p.WindowID, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Type, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Title, err = ReadString(r); err != nil {
		return nil, err
	}
	if p.SlotCount, err = ReadI8(r); err != nil {
		return nil, err
	}
	return p, nil
}

// WindowClose (0x65, both directions).
type WindowClose struct {
	WindowID int8
}

func (WindowClose) PacketID() byte { return 0x65 }
func (p WindowClose) EncodeBody(w io.Writer) error {
	return WriteI8(w, p.WindowID)
}
func decodeWindowClose(r io.Reader) (Packet, error) {
	id, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	return WindowClose{WindowID: id}, nil
}

// WindowClick (0x66, client->server).
type WindowClick struct {
	WindowID   int8
	Slot       int16
	RightClick bool
	ActionNum  int16
	Shift      bool
	Item       Slot
}

func (WindowClick) PacketID() byte { return 0x66 }
func (p WindowClick) EncodeBody(w io.Writer) error {
	if err := WriteI8(w, p.WindowID); err != nil {
		return err
	}
	if err := WriteI16(w, p.Slot); err != nil {
		return err
	}
	if err := WriteBool(w, p.RightClick); err != nil {
		return err
	}
	if err := WriteI16(w, p.ActionNum); err != nil {
		return err
	}
	if err := WriteBool(w, p.Shift); err != nil {
		return err
	}
	return WriteSlot(w, p.Item)
}
func decodeWindowClick(r io.Reader) (Packet, error) {
	var p WindowClick
	var err error
	if p.WindowID, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Slot, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.RightClick, err = ReadBool(r); err != nil {
		return nil, err
	}
	if p.ActionNum, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.Shift, err = ReadBool(r); err != nil {
		return nil, err
	}
	if p.Item, err = ReadSlot(r); err != nil {
		return nil, err
	}
	return p, nil
}

// SetSlot (0x67, server->client): a single-slot window update.
type SetSlot struct {
	WindowID int8
	Slot     int16
	Item     Slot
}

func (SetSlot) PacketID() byte { return 0x67 }
func (p SetSlot) EncodeBody(w io.Writer) error {
	if err := WriteI8(w, p.WindowID); err != nil {
		return err
	}
	if err := WriteI16(w, p.Slot); err != nil {
		return err
	}
	return WriteSlot(w, p.Item)
}
func decodeSetSlot(r io.Reader) (Packet, error) {
	var p SetSlot
	var err error
	if p.WindowID, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Slot, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.Item, err = ReadSlot(r); err != nil {
		return nil, err
	}
	return p, nil
}

// SetWindowItems (0x68, server->client): the full contents of a window.
type SetWindowItems struct {
	WindowID int8
	Items    []Slot
}

func (SetWindowItems) PacketID() byte { return 0x68 }
func (p SetWindowItems) EncodeBody(w io.Writer) error {
	if err := WriteI8(w, p.WindowID); err != nil {
		return err
	}
	if err := WriteI16(w, int16(len(p.Items))); err != nil {
		return err
	}
	for _, it := range p.Items {
		if err := WriteSlot(w, it); err != nil {
			return err
		}
	}
	return nil
}
func decodeSetWindowItems(r io.Reader) (Packet, error) {
	var p SetWindowItems
	var err error
	if p.WindowID, err = ReadI8(r); err != nil {
		return nil, err
	}
	n16, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	if n16 < 0 {
		return nil, &InvalidLengthError{Field: "SetWindowItems.N", Value: int64(n16)}
	}
	p.Items = make([]Slot, n16)
	for i := range p.Items {
		if p.Items[i], err = ReadSlot(r); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// WindowProgress (0x69, server->client): a furnace/brewing-stand progress
// bar update.
type WindowProgress struct {
	WindowID int8
	Bar      int16
	Value    int16
}

func (WindowProgress) PacketID() byte { return 0x69 }
func (p WindowProgress) EncodeBody(w io.Writer) error {
	if err := WriteI8(w, p.WindowID); err != nil {
		return err
	}
	if err := WriteI16(w, p.Bar); err != nil {
		return err
	}
	return WriteI16(w, p.Value)
}
func decodeWindowProgress(r io.Reader) (Packet, error) {
	id, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	bar, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	val, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	return WindowProgress{WindowID: id, Bar: bar, Value: val}, nil
}

// WindowTransaction (0x6a, both directions): server confirms or rejects a
// WindowClick by action number; client can reply to roll back locally.
type WindowTransaction struct {
	WindowID  int8
	ActionNum int16
	Accepted  bool
}

func (WindowTransaction) PacketID() byte { return 0x6a }
func (p WindowTransaction) EncodeBody(w io.Writer) error {
	if err := WriteI8(w, p.WindowID); err != nil {
		return err
	}
	if err := WriteI16(w, p.ActionNum); err != nil {
		return err
	}
	return WriteBool(w, p.Accepted)
}
func decodeWindowTransaction(r io.Reader) (Packet, error) {
	id, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	action, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	ok, err := ReadBool(r)
	if err != nil {
		return nil, err
	}
	return WindowTransaction{WindowID: id, ActionNum: action, Accepted: ok}, nil
}

// CreativeAction (0x6b, client->server): a creative-mode inventory set,
// bypassing the normal window-click transaction flow.
type CreativeAction struct {
	Slot int16
	Item Slot
}

func (CreativeAction) PacketID() byte { return 0x6b }
func (p CreativeAction) EncodeBody(w io.Writer) error {
	if err := WriteI16(w, p.Slot); err != nil {
		return err
	}
	return WriteSlot(w, p.Item)
}
func decodeCreativeAction(r io.Reader) (Packet, error) {
	slot, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	item, err := ReadSlot(r)
	if err != nil {
		return nil, err
	}
	return CreativeAction{Slot: slot, Item: item}, nil
}

// UpdateSign (0x82, both directions).
type UpdateSign struct {
	X         int32
	Y         int16
	Z         int32
	Lines     [4]string
}

func (UpdateSign) PacketID() byte { return 0x82 }
func (p UpdateSign) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.X); err != nil {
		return err
	}
	if err := WriteI16(w, p.Y); err != nil {
		return err
	}
	if err := WriteI32(w, p.Z); err != nil {
		return err
	}
	for _, line := range p.Lines {
		if err := WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
func decodeUpdateSign(r io.Reader) (Packet, error) {
	var p UpdateSign
	var err error
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	for i := range p.Lines {
		if p.Lines[i], err = ReadString(r); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ItemData (0x83, server->client): per-item auxiliary payload (map data).
type ItemData struct {
	ItemType int16
	ItemID   int16
	Data     []byte
}

func (ItemData) PacketID() byte { return 0x83 }
func (p ItemData) EncodeBody(w io.Writer) error {
	if err := WriteI16(w, p.ItemType); err != nil {
		return err
	}
	if err := WriteI16(w, p.ItemID); err != nil {
		return err
	}
	if err := WriteU8(w, uint8(len(p.Data))); err != nil {
		return err
	}
	_, err := w.Write(p.Data)
	return err
}
func decodeItemData(r io.Reader) (Packet, error) {
	var p ItemData
	var err error
	if p.ItemType, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.ItemID, err = ReadI16(r); err != nil {
		return nil, err
	}
	n, err := ReadU8(r)
	if err != nil {
		return nil, err
	}
	data, err := ReadBytes(r, int(n))
	if err != nil {
		return nil, err
	}
	p.Data = data
	return p, nil
}

// IncrementStatistic (0xC8, server->client).
type IncrementStatistic struct {
	StatisticID int32
	Amount      int8
}

func (IncrementStatistic) PacketID() byte { return 0xC8 }
func (p IncrementStatistic) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.StatisticID); err != nil {
		return err
	}
	return WriteI8(w, p.Amount)
}
func decodeIncrementStatistic(r io.Reader) (Packet, error) {
	id, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	amount, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	return IncrementStatistic{StatisticID: id, Amount: amount}, nil
}

// PlayerListItem (0xC9, server->client): adds/removes/updates a row in the
// player-list sidebar.
type PlayerListItem struct {
	Username string
	Online   bool
	Ping     int16
}

func (PlayerListItem) PacketID() byte { return 0xC9 }
func (p PlayerListItem) EncodeBody(w io.Writer) error {
	if err := WriteString(w, p.Username); err != nil {
		return err
	}
	if err := WriteBool(w, p.Online); err != nil {
		return err
	}
	return WriteI16(w, p.Ping)
}
func decodePlayerListItem(r io.Reader) (Packet, error) {
	name, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	online, err := ReadBool(r)
	if err != nil {
		return nil, err
	}
	ping, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	return PlayerListItem{Username: name, Online: online, Ping: ping}, nil
}

func init() {
	register(0x64, decodeWindowOpen)
	register(0x65, decodeWindowClose)
	register(0x66, decodeWindowClick)
	register(0x67, decodeSetSlot)
	register(0x68, decodeSetWindowItems)
	register(0x69, decodeWindowProgress)
	register(0x6a, decodeWindowTransaction)
	register(0x6b, decodeCreativeAction)
	register(0x82, decodeUpdateSign)
	register(0x83, decodeItemData)
	register(0xC8, decodeIncrementStatistic)
	register(0xC9, decodePlayerListItem)
}
