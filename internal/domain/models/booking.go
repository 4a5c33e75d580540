package models

import (
	"encoding/json"
	"time"
)

// Contact is the agent contact snapshot copied onto a booking at creation time.
type Contact struct {
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email"`
	MobileNumber string `json:"mobile_number" bson:"mobile_number"`
	State        string `json:"state" bson:"state"`
}

type Pricing struct {
	AgentCommission float64 `json:"agent_commission" bson:"agent_commission"`
	BaseTotal       float64 `json:"base_total" bson:"base_total"`
	TotalAmount     float64 `json:"total_amount" bson:"total_amount"`
}

type TripDates struct {
	PickupDate     *time.Time `json:"pickup_date,omitempty" bson:"pickup_date,omitempty"`
	PickupTime     string     `json:"pickup_time" bson:"pickup_time"`
	PickupLocation string     `json:"pickup_location" bson:"pickup_location"`
	DropDate       *time.Time `json:"drop_date,omitempty" bson:"drop_date,omitempty"`
	DropTime       string     `json:"drop_time" bson:"drop_time"`
	DropLocation   string     `json:"drop_location" bson:"drop_location"`
}

type Guests struct {
	AdultsTotal int `json:"adults_total" bson:"adults_total"`
	Children    int `json:"children" bson:"children"`
	Infants     int `json:"infants" bson:"infants"`
}

type Extras struct {
	EntryTicketNeeded bool `json:"entry_ticket_needed" bson:"entry_ticket_needed"`
	SnowWorldNeeded   bool `json:"snow_world_needed" bson:"snow_world_needed"`
	Breakfast         bool `json:"breakfast" bson:"breakfast"`
	LunchVeg          bool `json:"lunchVeg" bson:"lunchVeg"`
	LunchNonVeg       bool `json:"lunchNonVeg" bson:"lunchNonVeg"`
	GuideNeeded       bool `json:"guideNeeded" bson:"guideNeeded"`
}

type HotelChoice struct {
	HotelName string `json:"hotel_name" bson:"hotel_name"`
	FoodPlan  string `json:"food_plan" bson:"food_plan"`
	Rooms     int    `json:"rooms" bson:"rooms"`
	ExtraBeds int    `json:"extra_beds" bson:"extra_beds"`
}

// Booking is the ad-hoc custom package booking (variant A).
type Booking struct {
	ID          string      `json:"id" bson:"_id"`
	AgentID     string      `json:"user_id" bson:"user_id"`
	Contact     Contact     `json:"contact" bson:"contact"`
	PackageID   string      `json:"package_id,omitempty" bson:"package_id,omitempty"`
	PackageName string      `json:"package_name" bson:"package_name"`
	VehicleID   string      `json:"vehicle_id,omitempty" bson:"vehicle_id,omitempty"`
	VehicleName string      `json:"vehicle_name" bson:"vehicle_name"`
	Dates       TripDates   `json:"dates" bson:"dates"`
	Guests      Guests      `json:"guests" bson:"guests"`
	Extras      Extras      `json:"extras" bson:"extras"`
	HotelID     string      `json:"hotel_id,omitempty" bson:"hotel_id,omitempty"`
	Hotel       HotelChoice `json:"hotel" bson:"hotel"`
	Pricing     Pricing     `json:"pricing" bson:"pricing"`
	Status      Status      `json:"status" bson:"status"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

type OutboundLeg struct {
	PickupDate    *time.Time `json:"pickup_date,omitempty" bson:"pickup_date,omitempty"`
	DepartureTime *time.Time `json:"departure_time,omitempty" bson:"departure_time,omitempty"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty" bson:"arrival_time,omitempty"`
	Flight        string     `json:"flight,omitempty" bson:"flight,omitempty"`
}

type ReturnLeg struct {
	DropDate      *time.Time `json:"drop_date,omitempty" bson:"drop_date,omitempty"`
	DepartureTime *time.Time `json:"departure_time,omitempty" bson:"departure_time,omitempty"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty" bson:"arrival_time,omitempty"`
	Flight        string     `json:"flight,omitempty" bson:"flight,omitempty"`
}

type DefaultDates struct {
	Outbound OutboundLeg `json:"outbound" bson:"outbound"`
	Return   ReturnLeg   `json:"return" bson:"return"`
}

type DefaultGuests struct {
	AdultsTotal        int `json:"adults_total" bson:"adults_total"`
	ChildrenWithBed    int `json:"children_with_bed" bson:"children_with_bed"`
	ChildrenWithoutBed int `json:"children_without_bed" bson:"children_without_bed"`
	Infants            int `json:"infants" bson:"infants"`
}

// DefaultPackageBooking is a booking against a fixed-departure package (variant B).
type DefaultPackageBooking struct {
	ID          string        `json:"id" bson:"_id"`
	AgentID     string        `json:"user_id" bson:"user_id"`
	Contact     Contact       `json:"contact" bson:"contact"`
	PackageID   string        `json:"package_id,omitempty" bson:"package_id,omitempty"`
	PackageName string        `json:"package_name" bson:"package_name"`
	Dates       DefaultDates  `json:"dates" bson:"dates"`
	Guests      DefaultGuests `json:"guests" bson:"guests"`
	Pricing     Pricing       `json:"pricing" bson:"pricing"`
	Status      Status        `json:"status" bson:"status"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Record is the part of a booking the stores need regardless of variant.
type Record interface {
	RecordID() string
	RecordStatus() Status
	OwnerID() string
	CreatedTime() time.Time
	UpdatedTime() time.Time
	ContactInfo() Contact
	Amounts() Pricing
}

func (b Booking) RecordID() string       { return b.ID }
func (b Booking) RecordStatus() Status   { return b.Status }
func (b Booking) OwnerID() string        { return b.AgentID }
func (b Booking) CreatedTime() time.Time { return b.CreatedAt }
func (b Booking) UpdatedTime() time.Time { return b.UpdatedAt }
func (b Booking) ContactInfo() Contact   { return b.Contact }
func (b Booking) Amounts() Pricing       { return b.Pricing }
func (b *Booking) SetStatus(s Status, at time.Time) {
	b.Status = s
	b.UpdatedAt = at
}

func (b DefaultPackageBooking) RecordID() string       { return b.ID }
func (b DefaultPackageBooking) RecordStatus() Status   { return b.Status }
func (b DefaultPackageBooking) OwnerID() string        { return b.AgentID }
func (b DefaultPackageBooking) CreatedTime() time.Time { return b.CreatedAt }
func (b DefaultPackageBooking) UpdatedTime() time.Time { return b.UpdatedAt }
func (b DefaultPackageBooking) ContactInfo() Contact   { return b.Contact }
func (b DefaultPackageBooking) Amounts() Pricing       { return b.Pricing }
func (b *DefaultPackageBooking) SetStatus(s Status, at time.Time) {
	b.Status = s
	b.UpdatedAt = at
}

// ResolvedBooking is the tagged union returned by variant resolution.
// Exactly one of Normal or Default is set, matching Variant.
type ResolvedBooking struct {
	Variant Variant
	Normal  *Booking
	Default *DefaultPackageBooking
}

func ResolveNormal(b Booking) ResolvedBooking {
	return ResolvedBooking{Variant: VariantNormal, Normal: &b}
}

func ResolveDefault(b DefaultPackageBooking) ResolvedBooking {
	return ResolvedBooking{Variant: VariantDefault, Default: &b}
}

func (r ResolvedBooking) record() Record {
	if r.Variant == VariantDefault && r.Default != nil {
		return *r.Default
	}
	if r.Normal != nil {
		return *r.Normal
	}
	return Booking{}
}

func (r ResolvedBooking) ID() string           { return r.record().RecordID() }
func (r ResolvedBooking) Status() Status       { return r.record().RecordStatus() }
func (r ResolvedBooking) AgentID() string      { return r.record().OwnerID() }
func (r ResolvedBooking) CreatedAt() time.Time { return r.record().CreatedTime() }
func (r ResolvedBooking) Contact() Contact     { return r.record().ContactInfo() }
func (r ResolvedBooking) Pricing() Pricing     { return r.record().Amounts() }

func (r ResolvedBooking) PackageName() string {
	if r.Variant == VariantDefault && r.Default != nil {
		return r.Default.PackageName
	}
	if r.Normal != nil {
		return r.Normal.PackageName
	}
	return ""
}

// PickupDate is the trip start: pickup for variant A, outbound pickup for variant B.
func (r ResolvedBooking) PickupDate() *time.Time {
	if r.Variant == VariantDefault && r.Default != nil {
		return r.Default.Dates.Outbound.PickupDate
	}
	if r.Normal != nil {
		return r.Normal.Dates.PickupDate
	}
	return nil
}

// WithStatus returns a copy carrying the new status; the receiver is left untouched.
func (r ResolvedBooking) WithStatus(s Status, at time.Time) ResolvedBooking {
	switch r.Variant {
	case VariantDefault:
		if r.Default != nil {
			cp := *r.Default
			cp.SetStatus(s, at)
			r.Default = &cp
		}
	default:
		if r.Normal != nil {
			cp := *r.Normal
			cp.SetStatus(s, at)
			r.Normal = &cp
		}
	}
	return r
}

// MarshalJSON flattens the record and adds "type" and "source" tags.
func (r ResolvedBooking) MarshalJSON() ([]byte, error) {
	var raw []byte
	var err error
	if r.Variant == VariantDefault {
		raw, err = json.Marshal(r.Default)
	} else {
		raw, err = json.Marshal(r.Normal)
	}
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	fields["type"], _ = json.Marshal(r.Variant)
	fields["source"], _ = json.Marshal(r.Variant.Source())
	return json.Marshal(fields)
}
