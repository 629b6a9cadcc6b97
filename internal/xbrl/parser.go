package xbrl

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const nsInstance = "http://www.xbrl.org/2003/instance"

var (
	// ErrMalformedDocument means the bytes are not well-formed XML.
	ErrMalformedDocument = errors.New("malformed XBRL document")
	// ErrUnresolvedFiscalPeriod means no context in the instance carries a date.
	ErrUnresolvedFiscalPeriod = errors.New("no period date in XBRL document")
)

// periodContext is an xbrli:context reduced to the dates we need
type periodContext struct {
	ID     string `xml:"id,attr"`
	Period struct {
		Instant   string `xml:"instant"`
		StartDate string `xml:"startDate"`
		EndDate   string `xml:"endDate"`
	} `xml:"period"`
}

// fact is one element carrying a contextRef, in document order
type fact struct {
	Space      string
	Local      string
	ContextRef string
	Text       string
	Nil        bool
}

type factElement struct {
	Text string `xml:",chardata"`
	Nil  string `xml:"http://www.w3.org/2001/XMLSchema-instance nil,attr"`
}

// instance is a parsed XBRL instance document
type instance struct {
	contexts []periodContext
	facts    []fact
	byLocal  map[string][]int
}

// parseInstance streams the document once, collecting contexts and facts.
// Tuples and other container elements without a contextRef are descended into.
func parseInstance(data []byte) (*instance, error) {
	inst := &instance{byLocal: make(map[string][]int)}
	dec := xml.NewDecoder(bytes.NewReader(data))

	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true

		if se.Name.Local == "context" && (se.Name.Space == nsInstance || se.Name.Space == "xbrli" || se.Name.Space == "") {
			var ctx periodContext
			if err := dec.DecodeElement(&ctx, &se); err != nil {
				return nil, fmt.Errorf("%w: context: %v", ErrMalformedDocument, err)
			}
			inst.contexts = append(inst.contexts, ctx)
			continue
		}

		ref := attr(se, "contextRef")
		if ref == "" {
			continue
		}
		var el factElement
		if err := dec.DecodeElement(&el, &se); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, se.Name.Local, err)
		}
		inst.byLocal[se.Name.Local] = append(inst.byLocal[se.Name.Local], len(inst.facts))
		inst.facts = append(inst.facts, fact{
			Space:      se.Name.Space,
			Local:      se.Name.Local,
			ContextRef: ref,
			Text:       strings.TrimSpace(el.Text),
			Nil:        el.Nil == "true" || el.Nil == "1",
		})
	}

	if !sawRoot {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}
	return inst, nil
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// fiscalYear takes the year from the first instant or end date found across
// contexts, in document order.
func (inst *instance) fiscalYear() (int, bool) {
	for _, c := range inst.contexts {
		for _, d := range []string{c.Period.Instant, c.Period.EndDate} {
			d = strings.TrimSpace(d)
			if len(d) < 4 {
				continue
			}
			if year, err := strconv.Atoi(d[:4]); err == nil && year > 0 {
				return year, true
			}
		}
	}
	return 0, false
}

// firstText returns the text of the first non-nil fact with the given local name.
func (inst *instance) firstText(local string) (string, bool) {
	for _, i := range inst.byLocal[local] {
		if f := inst.facts[i]; !f.Nil && f.Text != "" {
			return f.Text, true
		}
	}
	return "", false
}
