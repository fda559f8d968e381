package sparql

import (
	"fmt"
	"strings"
	"time"
)

// Term is a value that renders itself as a safely escaped SPARQL token.
// Queries are assembled exclusively from constant text and Terms, so escaping
// happens by construction rather than by ad hoc helper calls at each use site.
type Term interface {
	fmt.Stringer
}

// URI renders as an IRI ref, e.g. <http://data.lblod.info/id/account/x>.
type URI string

func (u URI) String() string {
	replacer := strings.NewReplacer(
		"<", "%3C",
		">", "%3E",
		`"`, "%22",
		"{", "%7B",
		"}", "%7D",
		"|", "%7C",
		"^", "%5E",
		"`", "%60",
		" ", "%20",
		"\\", "%5C",
		"\n", "%0A",
		"\r", "%0D",
		"\t", "%09",
	)
	return "<" + replacer.Replace(string(u)) + ">"
}

// Literal renders as a plain string literal.
type Literal string

func (l Literal) String() string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		`"`, `\"`,
		"\n", "\\n",
		"\r", "\\r",
		"\t", "\\t",
	)
	return `"` + replacer.Replace(string(l)) + `"`
}

// DateTime renders as an xsd:dateTime typed literal.
type DateTime time.Time

func (d DateTime) String() string {
	return `"` + time.Time(d).Format(time.RFC3339) + `"^^<http://www.w3.org/2001/XMLSchema#dateTime>`
}
