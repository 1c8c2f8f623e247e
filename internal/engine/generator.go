package engine

import (
	"strings"
	"time"

	"snowflake-connector/internal/codec"
	"snowflake-connector/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// Generator produces random records for a schema. String fields are filled
// by name hints (email, phone, name, address, city, country, zip) and fall
// back to a short sentence.
type Generator struct {
	Faker *gofakeit.Faker
	// NullEvery makes roughly one in NullEvery nullable values nil. 0 never.
	NullEvery int
}

func NewGenerator(seed int64) *Generator {
	return &Generator{Faker: gofakeit.New(seed), NullEvery: 10}
}

// Record returns one random record with a value for every field of s.
func (g *Generator) Record(s *schema.Record) codec.Record {
	rec := make(codec.Record, len(s.Fields))
	for _, f := range s.Fields {
		rec[f.Name] = g.Value(f.Name, f.Type)
	}
	return rec
}

// Value returns a random value of type t in the form the encoder accepts.
func (g *Generator) Value(name string, t schema.Type) any {
	if t.Nullable && g.NullEvery > 0 && g.Faker.Number(1, g.NullEvery) == 1 {
		return nil
	}
	t = t.NonNullable()
	f := g.Faker

	switch t.Kind {
	case schema.KindString:
		return g.text(strings.ToLower(name))
	case schema.KindBytes:
		return []byte(f.LetterN(8))
	case schema.KindInt:
		return int32(f.Number(1, 50000))
	case schema.KindLong:
		return int64(f.Number(1, 50000))
	case schema.KindFloat:
		return float32(f.Float64Range(0, 1000))
	case schema.KindDouble:
		return f.Float64Range(0, 1000)
	case schema.KindBoolean:
		return f.Bool()
	case schema.KindDecimal:
		return g.decimal(t.Precision, t.Scale)
	case schema.KindDate:
		d := f.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).UTC()
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	case schema.KindTimestampMillis, schema.KindTimestampMicros:
		return f.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).UTC().Truncate(time.Microsecond)
	case schema.KindTimeMillis, schema.KindTimeMicros:
		return time.Date(1970, 1, 1, f.Number(0, 23), f.Number(0, 59), f.Number(0, 59), 0, time.UTC)
	case schema.KindRecord:
		out := make(map[string]any, len(t.Fields))
		for _, nested := range t.Fields {
			out[nested.Name] = g.Value(nested.Name, nested.Type)
		}
		return out
	case schema.KindArray:
		return []any{g.Value(name, *t.Elem), g.Value(name, *t.Elem)}
	case schema.KindMap:
		return map[string]any{f.Word(): g.Value(name, *t.Elem)}
	}
	return nil
}

func (g *Generator) text(name string) string {
	f := g.Faker
	isID := strings.HasSuffix(name, "id")
	switch {
	case isID:
		return f.UUID()
	case strings.Contains(name, "email"):
		return f.Email()
	case strings.Contains(name, "phone"):
		return f.Phone()
	case strings.Contains(name, "name"):
		return f.Name()
	case strings.Contains(name, "address") || strings.Contains(name, "street"):
		return f.Street()
	case strings.Contains(name, "city"):
		return f.City()
	case strings.Contains(name, "country"):
		return f.Country()
	case strings.Contains(name, "zip") || strings.Contains(name, "postal"):
		return f.Zip()
	}
	return f.Sentence(5)
}

// decimal keeps the integer part within precision-scale digits, capped at
// six, and the fraction within scale digits.
func (g *Generator) decimal(precision, scale int) decimal.Decimal {
	intDigits := min(max(precision-scale, 0), 6)
	fracDigits := min(scale, 6)

	d := decimal.Zero
	if intDigits > 0 {
		d = decimal.NewFromInt(int64(g.Faker.Number(0, pow10(intDigits)-1)))
	}
	if fracDigits > 0 {
		frac := decimal.New(int64(g.Faker.Number(0, pow10(fracDigits)-1)), -int32(fracDigits))
		d = d.Add(frac)
	}
	if g.Faker.Bool() {
		d = d.Neg()
	}
	return d
}

func pow10(n int) int {
	out := 1
	for i := 0; i < n; i++ {
		out *= 10
	}
	return out
}
