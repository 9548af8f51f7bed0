package catalog

import (
	"strconv"

	"whlp/internal/entity"
)

type setter func(m *entity.Monument, raw string)

type fieldSetter struct {
	name string
	set  setter
}

// fields is the fixed set of columns a row may carry. Order follows the
// monuments table.
var fields = []fieldSetter{
	{"category", str(func(m *entity.Monument) **string { return &m.Category })},
	{"criteria_txt", str(func(m *entity.Monument) **string { return &m.CriteriaTxt })},
	{"danger", str(func(m *entity.Monument) **string { return &m.Danger })},
	{"date_inscribed", str(func(m *entity.Monument) **string { return &m.DateInscribed })},
	{"extension", i32(func(m *entity.Monument) **int32 { return &m.Extension })},
	{"historical_description", str(func(m *entity.Monument) **string { return &m.HistoricalDescription })},
	{"http_url", str(func(m *entity.Monument) **string { return &m.HTTPURL })},
	{"id_number", i32(func(m *entity.Monument) **int32 { return &m.IDNumber })},
	{"image_url", str(func(m *entity.Monument) **string { return &m.ImageURL })},
	{"iso_code", str(func(m *entity.Monument) **string { return &m.ISOCode })},
	{"justification", str(func(m *entity.Monument) **string { return &m.Justification })},
	{"latitude", f64(func(m *entity.Monument) **float64 { return &m.Latitude })},
	{"longitude", f64(func(m *entity.Monument) **float64 { return &m.Longitude })},
	{"location", str(func(m *entity.Monument) **string { return &m.Location })},
	{"long_description", str(func(m *entity.Monument) **string { return &m.LongDescription })},
	{"region", str(func(m *entity.Monument) **string { return &m.Region })},
	{"revision", i32(func(m *entity.Monument) **int32 { return &m.Revision })},
	{"secondary_dates", str(func(m *entity.Monument) **string { return &m.SecondaryDates })},
	{"short_description", str(func(m *entity.Monument) **string { return &m.ShortDescription })},
	{"site", str(func(m *entity.Monument) **string { return &m.Site })},
	{"states", str(func(m *entity.Monument) **string { return &m.States })},
	{"transboundary", i32(func(m *entity.Monument) **int32 { return &m.Transboundary })},
	{"unique_number", i32(func(m *entity.Monument) **int32 { return &m.UniqueNumber })},
}

func str(field func(*entity.Monument) **string) setter {
	return func(m *entity.Monument, raw string) {
		v := raw
		*field(m) = &v
	}
}

func i32(field func(*entity.Monument) **int32) setter {
	return func(m *entity.Monument, raw string) {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			*field(m) = nil
			return
		}
		v := int32(n)
		*field(m) = &v
	}
}

func f64(field func(*entity.Monument) **float64) setter {
	return func(m *entity.Monument, raw string) {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			*field(m) = nil
			return
		}
		*field(m) = &f
	}
}

// MapMonument builds a Monument from a row. Unknown keys are ignored and a
// value that does not parse for a numeric field leaves that field unset.
// The returned monument has no ID yet; the writer assigns one.
func MapMonument(rec Record) entity.Monument {
	m := entity.NewMonument()
	for _, f := range fields {
		if raw, ok := rec[f.name]; ok {
			f.set(&m, raw)
		}
	}
	return m
}

// FieldNames lists the known row fields in table order.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}
