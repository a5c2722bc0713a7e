package scraper

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// NotAvailable is reported for a field whose element is missing from the page.
	NotAvailable = "N/A"
	// FetchError is reported for every field of a page that could not be fetched.
	FetchError = "Error"

	// elementPrefix is the ASP.NET naming container used by the detail pages.
	elementPrefix = "ctl00_ContentPlaceHolderMain"
)

// Field is one labelled value on a tournament detail page.
type Field struct {
	// Key is the name used in tool output.
	Key string
	// Label is the suffix of the element id, e.g. "Nom" for
	// ctl00_ContentPlaceHolderMain_LabelNom.
	Label string
}

// ElementID returns the id of the span holding the field.
func (f Field) ElementID() string {
	return elementPrefix + "_Label" + f.Label
}

var (
	FieldName         = Field{Key: "name", Label: "Nom"}
	FieldDates        = Field{Key: "dates", Label: "Dates"}
	FieldRounds       = Field{Key: "nombre_rondes", Label: "NbrRondes"}
	FieldTimeControl  = Field{Key: "cadence", Label: "Cadence"}
	FieldOrganizer    = Field{Key: "organisateur", Label: "Organisateur"}
	FieldArbiter      = Field{Key: "arbitre", Label: "Arbitre"}
	FieldAddress      = Field{Key: "adresse", Label: "Adresse"}
	FieldContact      = Field{Key: "contact", Label: "Contact"}
	FieldFirstPrize   = Field{Key: "premier_prix", Label: "Prix1"}
	FieldSeniorFee    = Field{Key: "inscription_senior", Label: "InscriptionSenior"}
	FieldYouthFee     = Field{Key: "inscription_jeunes", Label: "InscriptionJeune"}
	FieldAnnouncement = Field{Key: "annonce", Label: "Annonce"}
)

// SummaryFields are read on the bulk listing path.
var SummaryFields = []Field{
	FieldName,
	FieldDates,
	FieldRounds,
	FieldOrganizer,
}

// DetailFields are read for a single tournament lookup.
var DetailFields = []Field{
	FieldName,
	FieldDates,
	FieldRounds,
	FieldTimeControl,
	FieldOrganizer,
	FieldArbiter,
	FieldAddress,
	FieldContact,
	FieldFirstPrize,
	FieldSeniorFee,
	FieldYouthFee,
	FieldAnnouncement,
}

// FieldState tags how a field value was obtained.
type FieldState int

const (
	Absent FieldState = iota
	Present
	Failed
)

// FieldValue is the outcome of reading one field. Present("") means the element
// existed but was empty, which is distinct from Absent.
type FieldValue struct {
	State FieldState
	Text  string
}

// String collapses the value to its external form.
func (v FieldValue) String() string {
	switch v.State {
	case Present:
		return v.Text
	case Failed:
		return FetchError
	default:
		return NotAvailable
	}
}

// extractField returns the trimmed text of the span carrying the field's id.
func extractField(doc *goquery.Document, f Field) FieldValue {
	sel := doc.Find("span#" + f.ElementID()).First()
	if sel.Length() == 0 {
		return FieldValue{State: Absent}
	}
	return FieldValue{State: Present, Text: strings.TrimSpace(sel.Text())}
}

// Tournament holds the fields read from one detail page.
type Tournament struct {
	Ref    string
	URL    string
	fields []Field
	values map[string]FieldValue
}

func newTournament(ref, url string, fields []Field) *Tournament {
	return &Tournament{
		Ref:    ref,
		URL:    url,
		fields: fields,
		values: make(map[string]FieldValue, len(fields)),
	}
}

// failedTournament marks every field Failed while keeping the canonical URL.
func failedTournament(ref, url string, fields []Field) *Tournament {
	t := newTournament(ref, url, fields)
	for _, f := range fields {
		t.values[f.Key] = FieldValue{State: Failed}
	}
	return t
}

// Fields returns the fields this tournament was fetched with, in order.
func (t *Tournament) Fields() []Field {
	return t.fields
}

// Value returns the tagged value for a field key.
func (t *Tournament) Value(key string) FieldValue {
	return t.values[key]
}

// Get returns the external string form of a field, or the URL for "url".
func (t *Tournament) Get(key string) string {
	if key == "url" {
		return t.URL
	}
	return t.values[key].String()
}

// Failed reports whether the page could not be fetched at all.
func (t *Tournament) Failed() bool {
	if len(t.fields) == 0 {
		return false
	}
	for _, f := range t.fields {
		if t.values[f.Key].State != Failed {
			return false
		}
	}
	return true
}

// Record returns every field key mapped to its string form, plus "url".
func (t *Tournament) Record() map[string]string {
	rec := make(map[string]string, len(t.fields)+1)
	for _, f := range t.fields {
		rec[f.Key] = t.values[f.Key].String()
	}
	rec["url"] = t.URL
	return rec
}

func (t *Tournament) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Record())
}
