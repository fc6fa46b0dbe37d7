package calendar

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/cyp0633/librecur/task"
	"github.com/emersion/go-ical"
)

// NamespaceXCal is the RFC 6321 namespace
const NamespaceXCal = "urn:ietf:params:xml:ns:icalendar-2.0"

// recurParts lists RRULE parts in the order the xCal schema requires
var recurParts = []string{
	"FREQ", "UNTIL", "COUNT", "INTERVAL",
	"BYSECOND", "BYMINUTE", "BYHOUR", "BYDAY", "BYMONTHDAY",
	"BYYEARDAY", "BYWEEKNO", "BYMONTH", "BYSETPOS", "WKST",
}

var dateTimeProps = map[string]bool{
	ical.PropDateTimeStamp: true,
	ical.PropDateTimeStart: true,
	ical.PropDue:           true,
	ical.PropCompleted:     true,
	ical.PropCreated:       true,
	ical.PropLastModified:  true,
}

// BuildXCal encodes tasks as an xCal document with one vtodo each
func BuildXCal(tasks []task.Task, now time.Time) ([]byte, error) {
	cal := NewCalendar()
	for _, t := range tasks {
		todo, err := TodoComponent(t, now)
		if err != nil {
			return nil, err
		}
		cal.Children = append(cal.Children, todo)
	}

	doc, err := ToXCal(cal)
	if err != nil {
		return nil, err
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}

// ToXCal converts a calendar to an xCal document
func ToXCal(cal *ical.Calendar) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("icalendar")
	root.CreateAttr("xmlns", NamespaceXCal)

	if err := componentElement(root, cal.Component); err != nil {
		return nil, err
	}
	return doc, nil
}

func componentElement(parent *etree.Element, comp *ical.Component) error {
	elem := parent.CreateElement(strings.ToLower(comp.Name))

	names := make([]string, 0, len(comp.Props))
	for name := range comp.Props {
		names = append(names, name)
	}
	slices.Sort(names)

	if len(names) > 0 {
		props := elem.CreateElement("properties")
		for _, name := range names {
			for _, prop := range comp.Props[name] {
				if err := propertyElement(props, &prop); err != nil {
					return fmt.Errorf("%s: %w", comp.Name, err)
				}
			}
		}
	}

	if len(comp.Children) > 0 {
		children := elem.CreateElement("components")
		for _, child := range comp.Children {
			if err := componentElement(children, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func propertyElement(parent *etree.Element, prop *ical.Prop) error {
	elem := parent.CreateElement(strings.ToLower(prop.Name))

	switch {
	case prop.Name == ical.PropRecurrenceRule:
		return recurElement(elem, prop.Value)
	case prop.Params.Get(ical.ParamValue) == "DATE":
		t, err := time.Parse(dateFormat, prop.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", prop.Name, err)
		}
		elem.CreateElement("date").SetText(t.Format(time.DateOnly))
	case dateTimeProps[prop.Name]:
		t, err := prop.DateTime(time.UTC)
		if err != nil {
			return fmt.Errorf("%s: %w", prop.Name, err)
		}
		elem.CreateElement("date-time").SetText(t.UTC().Format("2006-01-02T15:04:05Z"))
	default:
		text, err := prop.Text()
		if err != nil {
			text = prop.Value
		}
		elem.CreateElement("text").SetText(text)
	}
	return nil
}

func recurElement(parent *etree.Element, value string) error {
	parts := make(map[string]string)
	for _, part := range strings.Split(value, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return fmt.Errorf("malformed RRULE part %q", part)
		}
		parts[strings.ToUpper(k)] = v
	}

	recur := parent.CreateElement("recur")
	for _, key := range recurParts {
		v, ok := parts[key]
		if !ok {
			continue
		}
		if key == "UNTIL" {
			until, err := formatUntil(v)
			if err != nil {
				return err
			}
			recur.CreateElement("until").SetText(until)
			continue
		}
		for _, item := range strings.Split(v, ",") {
			recur.CreateElement(strings.ToLower(key)).SetText(item)
		}
	}
	return nil
}

func formatUntil(v string) (string, error) {
	if t, err := time.Parse(dateFormat, v); err == nil {
		return t.Format(time.DateOnly), nil
	}
	t, err := time.Parse("20060102T150405Z", v)
	if err != nil {
		return "", fmt.Errorf("invalid UNTIL %q: %w", v, err)
	}
	return t.Format("2006-01-02T15:04:05Z"), nil
}
