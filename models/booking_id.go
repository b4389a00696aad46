package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// BookingSource identifies the table a unified booking was read from.
type BookingSource string

const (
	SourceContract   BookingSource = "contract"
	SourceDirectHire BookingSource = "direct_hire"
)

// LegacyDirectHireOffset is the shift older console builds applied to direct
// hire ids to share one numeric space with contracts.
const LegacyDirectHireOffset uint64 = 100000

var ErrInvalidBookingID = errors.New("invalid booking id")

func (s BookingSource) Valid() bool {
	return s == SourceContract || s == SourceDirectHire
}

// UnifiedID names one row in one source table.
type UnifiedID struct {
	Source   BookingSource
	NativeID uint
}

func EncodeBookingID(source BookingSource, nativeID uint) UnifiedID {
	return UnifiedID{Source: source, NativeID: nativeID}
}

func DecodeBookingID(id UnifiedID) (BookingSource, uint) {
	return id.Source, id.NativeID
}

func (id UnifiedID) IsZero() bool {
	return id.Source == "" && id.NativeID == 0
}

func (id UnifiedID) String() string {
	return fmt.Sprintf("%s-%d", id.Source, id.NativeID)
}

// Legacy returns the offset-encoded number. Contract ids at or above the
// offset have no legacy form.
func (id UnifiedID) Legacy() (uint64, bool) {
	n := uint64(id.NativeID)
	switch id.Source {
	case SourceContract:
		if n == 0 || n >= LegacyDirectHireOffset {
			return 0, false
		}
		return n, true
	case SourceDirectHire:
		if n == 0 {
			return 0, false
		}
		return LegacyDirectHireOffset + n, true
	}
	return 0, false
}

// ParseBookingID accepts "contract-7", "direct_hire-42" and the legacy
// numeric form ("7", "100042").
func ParseBookingID(raw string) (UnifiedID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnifiedID{}, ErrInvalidBookingID
	}

	if i := strings.LastIndex(raw, "-"); i > 0 {
		source := BookingSource(raw[:i])
		if !source.Valid() {
			return UnifiedID{}, fmt.Errorf("%w: unknown source %q", ErrInvalidBookingID, raw[:i])
		}
		n, err := strconv.ParseUint(raw[i+1:], 10, 0)
		if err != nil || n == 0 {
			return UnifiedID{}, fmt.Errorf("%w: %q", ErrInvalidBookingID, raw)
		}
		return EncodeBookingID(source, uint(n)), nil
	}

	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return UnifiedID{}, fmt.Errorf("%w: %q", ErrInvalidBookingID, raw)
	}
	return ParseLegacyBookingID(n)
}

func ParseLegacyBookingID(n uint64) (UnifiedID, error) {
	switch {
	case n == 0 || n == LegacyDirectHireOffset:
		return UnifiedID{}, fmt.Errorf("%w: %d", ErrInvalidBookingID, n)
	case n > LegacyDirectHireOffset:
		return EncodeBookingID(SourceDirectHire, uint(n-LegacyDirectHireOffset)), nil
	default:
		return EncodeBookingID(SourceContract, uint(n)), nil
	}
}

func (id UnifiedID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *UnifiedID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseBookingID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	var n uint64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBookingID, string(data))
	}
	parsed, err := ParseLegacyBookingID(n)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
