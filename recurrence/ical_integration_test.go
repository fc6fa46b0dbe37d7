package recurrence

import (
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTodo() *ical.Component {
	return &ical.Component{
		Name:  ical.CompToDo,
		Props: make(ical.Props),
	}
}

func TestExtractDescriptorFromComponent(t *testing.T) {
	comp := newTodo()
	comp.Props.SetDateTime(ical.PropDateTimeStart, date(2024, 1, 8))
	rruleProp := ical.NewProp(ical.PropRecurrenceRule)
	rruleProp.Value = "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE;COUNT=10"
	comp.Props.Set(rruleProp)

	got, err := ExtractDescriptorFromComponent(comp)
	require.NoError(t, err)
	d, ok := got.Get()
	require.True(t, ok)

	assert.Equal(t, UnitWeek, d.IntervalUnit)
	assert.Equal(t, 2, d.IntervalLength)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, d.DaysOfWeek)
	assert.Equal(t, mo.Some(10), d.MaxCount)
	assert.True(t, d.StartDate.MustGet().Equal(date(2024, 1, 8)))
	assert.Equal(t, NoChange, d.OnWeekend)
	assert.False(t, d.BaseOnCompletion)
}

func TestExtractDescriptorFromComponent_NoRule(t *testing.T) {
	got, err := ExtractDescriptorFromComponent(newTodo())
	require.NoError(t, err)
	assert.True(t, got.IsAbsent())
}

func TestExtractDescriptorFromComponent_BadRule(t *testing.T) {
	comp := newTodo()
	rruleProp := ical.NewProp(ical.PropRecurrenceRule)
	rruleProp.Value = "FREQ=SOMETIMES"
	comp.Props.Set(rruleProp)

	_, err := ExtractDescriptorFromComponent(comp)
	assert.Error(t, err)
}

func TestApplyToComponent_RoundTrip(t *testing.T) {
	d := descriptor(UnitMonth,
		onDayOfMonth(31),
		startingOn(date(2024, 1, 31)),
		endingOn(date(2025, 1, 31)),
		weekends(PreviousWeekday),
		func(d *Descriptor) { d.BaseOnCompletion = true },
	)

	comp := newTodo()
	require.NoError(t, ApplyToComponent(comp, d))

	assert.Equal(t, "FREQ=MONTHLY;INTERVAL=1;WKST=SU;UNTIL=20250131;BYSETPOS=-1;BYMONTHDAY=28,29,30,31",
		comp.Props.Get(ical.PropRecurrenceRule).Value)
	start := comp.Props.Get(ical.PropDateTimeStart)
	require.NotNil(t, start)
	assert.Equal(t, "DATE", start.Params.Get(ical.ParamValue))
	assert.Equal(t, "20240131", start.Value)
	assert.Equal(t, "previous-weekday", comp.Props.Get(PropOnWeekend).Value)
	assert.Equal(t, "TRUE", comp.Props.Get(PropBaseOnCompletion).Value)

	got, err := ExtractDescriptorFromComponent(comp)
	require.NoError(t, err)
	assert.True(t, d.Equal(got.MustGet()), "got %+v", got.MustGet())
}

func TestApplyToComponent_UntilFollowsStartType(t *testing.T) {
	d := descriptor(UnitDay, endingOn(date(2024, 12, 31)))

	comp := newTodo()
	comp.Props.SetDateTime(ical.PropDateTimeStart, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, ApplyToComponent(comp, d))
	assert.Equal(t, "FREQ=DAILY;INTERVAL=1;WKST=SU;UNTIL=20241231T000000Z", comp.Props.Get(ical.PropRecurrenceRule).Value)
	assert.Equal(t, "20240101T090000Z", comp.Props.Get(ical.PropDateTimeStart).Value)

	comp = newTodo()
	require.NoError(t, ApplyToComponent(comp, d))
	assert.Equal(t, "FREQ=DAILY;INTERVAL=1;WKST=SU;UNTIL=20241231", comp.Props.Get(ical.PropRecurrenceRule).Value)
}

func TestApplyToComponent_ClearsExtensions(t *testing.T) {
	comp := newTodo()
	require.NoError(t, ApplyToComponent(comp, descriptor(UnitDay, weekends(NextWeekday))))
	require.NotNil(t, comp.Props.Get(PropOnWeekend))

	require.NoError(t, ApplyToComponent(comp, New(UnitDay)))
	assert.Nil(t, comp.Props.Get(PropOnWeekend))
	assert.Nil(t, comp.Props.Get(PropBaseOnCompletion))
}

func TestApplyToComponent_Unsupported(t *testing.T) {
	err := ApplyToComponent(newTodo(), descriptor(IntervalUnit("fortnight")))
	assert.ErrorIs(t, err, ErrUnsupportedRule)
}
