package recurrence

import (
	"fmt"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/samber/mo"
	"github.com/teambition/rrule-go"
)

// Non-standard properties carrying the parts of a descriptor RRULE cannot
// express
const (
	PropOnWeekend        = "X-LIBRECUR-ON-WEEKEND"
	PropBaseOnCompletion = "X-LIBRECUR-BASE-ON-COMPLETION"
)

const icalDateFormat = "20060102"

// ExtractDescriptorFromComponent reads the recurrence of an iCal component.
// Components without an RRULE yield None.
func ExtractDescriptorFromComponent(comp *ical.Component) (mo.Option[Descriptor], error) {
	rruleProp := comp.Props.Get(ical.PropRecurrenceRule)
	if rruleProp == nil || rruleProp.Value == "" {
		return mo.None[Descriptor](), nil
	}

	opt, err := rrule.StrToROption(rruleProp.Value)
	if err != nil {
		return mo.None[Descriptor](), fmt.Errorf("failed to parse RRULE '%s': %w", rruleProp.Value, err)
	}
	d, err := FromROption(opt)
	if err != nil {
		return mo.None[Descriptor](), err
	}

	// the series start lives in DTSTART, not in the RRULE value
	if d.StartDate.IsAbsent() {
		if dtstart, err := comp.Props.DateTime(ical.PropDateTimeStart, nil); err == nil && !dtstart.IsZero() {
			d.StartDate = mo.Some(dtstart)
		}
	}

	if p := comp.Props.Get(PropOnWeekend); p != nil && p.Value != "" {
		d.OnWeekend = WeekendPolicy(strings.ToLower(p.Value))
	}
	if p := comp.Props.Get(PropBaseOnCompletion); p != nil {
		d.BaseOnCompletion = strings.EqualFold(p.Value, "TRUE")
	}
	return mo.Some(d), nil
}

// ApplyToComponent writes d onto comp as an RRULE plus the extension
// properties. DTSTART is only set when comp has none, and is written as a
// DATE value. UNTIL follows the value type of DTSTART.
func ApplyToComponent(comp *ical.Component, d Descriptor) error {
	opt, err := d.ROption()
	if err != nil {
		return err
	}

	if start, ok := d.StartDate.Get(); ok && comp.Props.Get(ical.PropDateTimeStart) == nil {
		prop := ical.NewProp(ical.PropDateTimeStart)
		prop.Params.Set(ical.ParamValue, "DATE")
		prop.Value = start.Format(icalDateFormat)
		comp.Props.Set(prop)
	}

	value := opt.RRuleString()
	if !opt.Until.IsZero() && startIsDate(comp) {
		day := opt.Until.Format(icalDateFormat)
		value = strings.Replace(value, "UNTIL="+day+"T000000Z", "UNTIL="+day, 1)
	}
	rruleProp := ical.NewProp(ical.PropRecurrenceRule)
	rruleProp.Value = value
	comp.Props.Set(rruleProp)

	delete(comp.Props, PropOnWeekend)
	if policy := d.policy(); policy != NoChange {
		p := ical.NewProp(PropOnWeekend)
		p.Value = string(policy)
		comp.Props.Set(p)
	}

	delete(comp.Props, PropBaseOnCompletion)
	if d.BaseOnCompletion {
		p := ical.NewProp(PropBaseOnCompletion)
		p.Value = "TRUE"
		comp.Props.Set(p)
	}
	return nil
}

// startIsDate reports whether comp's DTSTART is, or will be, a DATE value
func startIsDate(comp *ical.Component) bool {
	prop := comp.Props.Get(ical.PropDateTimeStart)
	return prop == nil || strings.EqualFold(prop.Params.Get(ical.ParamValue), "DATE")
}
