package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidEventType = errors.New("invalid event type")

// EventTimeline describes when an event runs.
type EventTimeline struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description,omitempty"`
}

// PaymentInfo tracks the venue rental payment.
type PaymentInfo struct {
	Status       string `json:"status"`
	DateReceived string `json:"dateReceived,omitempty"`
	Method       string `json:"method,omitempty"`
}

// CommissionPaymentInfo tracks payment of the planner commission.
type CommissionPaymentInfo struct {
	Status   string `json:"status"`
	DatePaid string `json:"datePaid,omitempty"`
}

// EventFinancials is the money side of an event. Commission amount and
// percentage are stored independently; neither is derived from the other
// outside the edit form.
type EventFinancials struct {
	VenueRentalFee              float64                `json:"venueRentalFee"`
	IncomeFromExtras            float64                `json:"incomeFromExtras"`
	Costs                       float64                `json:"costs"`
	PlannerCommission           float64                `json:"plannerCommission,omitempty"`
	PlannerCommissionPercentage float64                `json:"plannerCommissionPercentage,omitempty"`
	PlannerID                   string                 `json:"plannerId,omitempty"`
	Payment                     PaymentInfo            `json:"payment"`
	CommissionPayment           *CommissionPaymentInfo `json:"commissionPayment,omitempty"`
}

// EventDetails is the per-type variant of an event. Exactly one concrete
// type applies for a given EventType, so an event cannot simultaneously
// carry wedding and meeting fields.
type EventDetails interface {
	eventDetails()
}

// WeddingDetails applies to eventType "wedding".
type WeddingDetails struct {
	Category string
	Timeline *EventTimeline
}

// MeetingDetails applies to eventType "meetings". Meetings have a single
// time instead of a timeline.
type MeetingDetails struct {
	MeetingTime string
}

// StandardDetails applies to every other event type.
type StandardDetails struct {
	Timeline *EventTimeline
}

func (WeddingDetails) eventDetails()  {}
func (MeetingDetails) eventDetails()  {}
func (StandardDetails) eventDetails() {}

// VenueEvent is a scheduled, committed event at the venue. Its presence on a
// date makes that date booked regardless of any booking record.
type VenueEvent struct {
	ID         string
	Name       string
	Date       string
	EventType  string
	Details    EventDetails
	Financials EventFinancials
	Notes      string
	VendorIDs  []string
	CreatedAt  int64
	UpdatedAt  int64
}

// NewEventID builds the canonical event id: the date joined with the
// creation timestamp in millis.
func NewEventID(date string, nowMillis int64) string {
	return fmt.Sprintf("%s-%d", date, nowMillis)
}

// Timeline returns the event's timeline when its variant carries one.
func (e *VenueEvent) Timeline() *EventTimeline {
	switch d := e.Details.(type) {
	case WeddingDetails:
		return d.Timeline
	case StandardDetails:
		return d.Timeline
	}
	return nil
}

// eventJSON is the flat wire shape shared with clients: optional fields
// instead of a variant, as the stored JSON snapshots expect.
type eventJSON struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Date            string           `json:"date"`
	EventType       string           `json:"eventType"`
	WeddingCategory string           `json:"weddingCategory,omitempty"`
	Timeline        *EventTimeline   `json:"timeline,omitempty"`
	MeetingDetails  *meetingJSON     `json:"meetingDetails,omitempty"`
	Financials      EventFinancials  `json:"financials"`
	Notes           string           `json:"notes,omitempty"`
	VendorIDs       []string         `json:"vendorIds,omitempty"`
	CreatedAt       int64            `json:"createdAt"`
	UpdatedAt       int64            `json:"updatedAt"`
}

type meetingJSON struct {
	MeetingTime string `json:"meetingTime"`
}

// MarshalJSON flattens the details variant into the wire shape.
func (e VenueEvent) MarshalJSON() ([]byte, error) {
	out := eventJSON{
		ID:         e.ID,
		Name:       e.Name,
		Date:       e.Date,
		EventType:  e.EventType,
		Financials: e.Financials,
		Notes:      e.Notes,
		VendorIDs:  e.VendorIDs,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	switch d := e.Details.(type) {
	case WeddingDetails:
		out.WeddingCategory = d.Category
		out.Timeline = d.Timeline
	case MeetingDetails:
		out.MeetingDetails = &meetingJSON{MeetingTime: d.MeetingTime}
	case StandardDetails:
		out.Timeline = d.Timeline
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the details variant from the flat wire shape,
// discarding fields that do not apply to the event type.
func (e *VenueEvent) UnmarshalJSON(data []byte) error {
	var in eventJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	e.ID = in.ID
	e.Name = in.Name
	e.Date = in.Date
	e.EventType = in.EventType
	e.Financials = in.Financials
	e.Notes = in.Notes
	e.VendorIDs = in.VendorIDs
	e.CreatedAt = in.CreatedAt
	e.UpdatedAt = in.UpdatedAt
	e.Details = buildDetails(in.EventType, in.WeddingCategory, in.Timeline, in.MeetingDetails)
	return nil
}

func buildDetails(eventType, weddingCategory string, timeline *EventTimeline, meeting *meetingJSON) EventDetails {
	switch eventType {
	case EventTypeWedding:
		return WeddingDetails{Category: weddingCategory, Timeline: timeline}
	case EventTypeMeetings:
		var t string
		if meeting != nil {
			t = meeting.MeetingTime
		}
		return MeetingDetails{MeetingTime: t}
	default:
		return StandardDetails{Timeline: timeline}
	}
}

// Validate checks the fields every event needs regardless of type.
func (e *VenueEvent) Validate() error {
	if e.Name == "" {
		return errors.New("event name is required")
	}
	if e.Date == "" {
		return errors.New("event date is required")
	}
	if !ValidEventType(e.EventType) {
		return fmt.Errorf("%w: %q", ErrInvalidEventType, e.EventType)
	}
	return nil
}

// EventPatch is a partial update. Nil fields are left untouched; set fields
// replace the stored value wholesale, matching the merge semantics of the
// update procedure.
type EventPatch struct {
	Name            *string          `json:"name,omitempty"`
	Date            *string          `json:"date,omitempty"`
	EventType       *string          `json:"eventType,omitempty"`
	WeddingCategory *string          `json:"weddingCategory,omitempty"`
	Timeline        *EventTimeline   `json:"timeline,omitempty"`
	MeetingDetails  *meetingJSON     `json:"meetingDetails,omitempty"`
	Financials      *EventFinancials `json:"financials,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	VendorIDs       *[]string        `json:"vendorIds,omitempty"`
}

// ApplyTo merges the patch into ev and rebuilds the details variant so a
// type change never leaves fields from the previous variant behind.
func (p *EventPatch) ApplyTo(ev *VenueEvent) {
	if p.Name != nil {
		ev.Name = *p.Name
	}
	if p.Date != nil {
		ev.Date = *p.Date
	}
	if p.EventType != nil {
		ev.EventType = *p.EventType
	}
	if p.Financials != nil {
		ev.Financials = *p.Financials
	}
	if p.Notes != nil {
		ev.Notes = *p.Notes
	}
	if p.VendorIDs != nil {
		ev.VendorIDs = *p.VendorIDs
	}

	category := ""
	timeline := ev.Timeline()
	var meeting *meetingJSON
	if d, ok := ev.Details.(WeddingDetails); ok {
		category = d.Category
	}
	if d, ok := ev.Details.(MeetingDetails); ok {
		meeting = &meetingJSON{MeetingTime: d.MeetingTime}
	}
	if p.WeddingCategory != nil {
		category = *p.WeddingCategory
	}
	if p.Timeline != nil {
		timeline = p.Timeline
	}
	if p.MeetingDetails != nil {
		meeting = p.MeetingDetails
	}
	ev.Details = buildDetails(ev.EventType, category, timeline, meeting)
}
