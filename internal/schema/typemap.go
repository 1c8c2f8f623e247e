package schema

import "fmt"

// SQL type codes as reported by JDBC-style drivers. Dialects translate
// driver-native type names into these.
const (
	TypeBit           = -7
	TypeTinyInt       = -6
	TypeSmallInt      = 5
	TypeInteger       = 4
	TypeBigInt        = -5
	TypeFloat         = 6
	TypeReal          = 7
	TypeDouble        = 8
	TypeNumeric       = 2
	TypeDecimal       = 3
	TypeChar          = 1
	TypeVarchar       = 12
	TypeLongVarchar   = -1
	TypeDate          = 91
	TypeTime          = 92
	TypeTimestamp     = 93
	TypeBinary        = -2
	TypeVarBinary     = -3
	TypeLongVarBinary = -4
	TypeBoolean       = 16
	TypeOther         = 1111
	TypeTimeTZ        = 2013
	TypeTimestampTZ   = 2014
)

// Warehouse DECIMAL columns are always read at this precision/scale,
// whatever the column declares.
const (
	DefaultDecimalPrecision = 38
	DefaultDecimalScale     = 9
)

var typeTable = map[int]Type{
	TypeVarchar:   Of(KindString),
	TypeChar:      Of(KindString),
	TypeBinary:    Of(KindBytes),
	TypeInteger:   Of(KindInt),
	TypeDecimal:   DecimalOf(DefaultDecimalPrecision, DefaultDecimalScale),
	TypeDouble:    Of(KindDouble),
	TypeTimestamp: Of(KindTimestampMicros),
	TypeDate:      Of(KindDate),
	TypeTime:      Of(KindTimeMicros),
	TypeBoolean:   Of(KindBoolean),
	TypeBigInt:    DecimalOf(DefaultDecimalPrecision, 0),
	TypeSmallInt:  DecimalOf(DefaultDecimalPrecision, 0),
}

// UnsupportedTypeError reports a SQL type code with no portable counterpart.
type UnsupportedTypeError struct {
	Code int
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("no corresponding schema type for sql type code %d", e.Code)
}

// MapType returns the portable type for a SQL type code.
func MapType(code int) (Type, error) {
	t, ok := typeTable[code]
	if !ok {
		return Type{}, &UnsupportedTypeError{Code: code}
	}
	return t, nil
}
