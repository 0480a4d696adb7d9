package record

import "fmt"

// MaxPayload is the largest payload a 16-bit address record can carry: the
// S-record byte count covers two address bytes and the checksum.
const MaxPayload = 252

// Kind tags the variant a Record holds.
type Kind int

const (
	Unknown Kind = iota
	Data
	TransferAddress
	Header
	Count
)

func (k Kind) String() string {
	switch k {
	case Data:
		return "data"
	case TransferAddress:
		return "transfer_address"
	case Header:
		return "header"
	case Count:
		return "count"
	default:
		return "unknown"
	}
}

// Record is a single decoded load record. Address carries the load address
// for Data, the start address for TransferAddress and the record count for
// Count (S5 stores it in the address field). Payload is only meaningful for
// Data and Header.
type Record struct {
	Kind     Kind
	Address  uint16
	Payload  []byte
	Checksum byte
}

// Frame returns the bytes an S-record checksum is computed over: the byte
// count, the address high and low bytes, then the payload.
func (r Record) Frame() []byte {
	buf := make([]byte, 0, len(r.Payload)+3)
	buf = append(buf, byte(len(r.Payload)+3), byte(r.Address>>8), byte(r.Address))
	return append(buf, r.Payload...)
}

// Seal fills in the checksum from the record contents.
func (r *Record) Seal() {
	r.Checksum = Checksum(r.Frame())
}

// Valid reports whether the stored checksum matches the record contents.
func (r Record) Valid() bool {
	return r.Checksum == Checksum(r.Frame())
}

func (r Record) String() string {
	switch r.Kind {
	case Data:
		return fmt.Sprintf("data %04X+%d", r.Address, len(r.Payload))
	case TransferAddress:
		return fmt.Sprintf("transfer %04X", r.Address)
	case Header:
		return fmt.Sprintf("header %q", r.Payload)
	case Count:
		return fmt.Sprintf("count %d", r.Address)
	default:
		return "unknown"
	}
}

// Checksum returns the one's complement of the low byte of the sum of every
// byte in parts.
func Checksum(parts ...[]byte) byte {
	var sum byte
	for _, p := range parts {
		for _, b := range p {
			sum += b
		}
	}
	return ^sum
}
