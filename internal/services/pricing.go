package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
	"travelagency/internal/utils"
)

var (
	errRequired   = errors.New("is required")
	errWholeCount = errors.New("must be a whole number")
	errNegative   = errors.New("must not be negative")
	errBadDate    = errors.New("must be a valid date")
	errBadClock   = errors.New("must be a time of day like 14:30")
)

// assembly collects reference fields that were dropped for being malformed.
type assembly struct {
	omitted []string
}

// fieldRule maps one payload path onto a record of type T.
type fieldRule[T any] struct {
	path     string
	required bool
	apply    func(rec *T, v models.Loose, a *assembly) error
}

func text[T any](path string, required bool, set func(*T, string)) fieldRule[T] {
	return fieldRule[T]{path: path, required: required, apply: func(rec *T, v models.Loose, _ *assembly) error {
		s, err := v.Text()
		if err != nil {
			return err
		}
		set(rec, utils.NormalizeSpace(s))
		return nil
	}}
}

// ref keeps well-formed UUIDs and silently drops anything else. A dropped
// value leaves rec as it was, so a patch does not erase the stored reference.
func ref[T any](path string, set func(*T, string)) fieldRule[T] {
	return fieldRule[T]{path: path, apply: func(rec *T, v models.Loose, a *assembly) error {
		if v.Blank() {
			set(rec, "")
			return nil
		}
		s, err := v.Text()
		if err != nil {
			a.omitted = append(a.omitted, path)
			return nil
		}
		id, err := uuid.Parse(s)
		if err != nil {
			a.omitted = append(a.omitted, path)
			return nil
		}
		set(rec, id.String())
		return nil
	}}
}

func date[T any](path string, set func(*T, *time.Time)) fieldRule[T] {
	return fieldRule[T]{path: path, apply: func(rec *T, v models.Loose, _ *assembly) error {
		if v.Blank() {
			set(rec, nil)
			return nil
		}
		s, err := v.Text()
		if err != nil {
			return errBadDate
		}
		t, err := utils.ParseFlexibleTime(s)
		if err != nil {
			return errBadDate
		}
		set(rec, &t)
		return nil
	}}
}

// maxCount is the largest guest or room count a booking may carry (an INT column).
const maxCount = math.MaxInt32

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3 PM", "3PM"}

// clock accepts a time of day and stores it as HH:MM.
func clock[T any](path string, set func(*T, string)) fieldRule[T] {
	return fieldRule[T]{path: path, apply: func(rec *T, v models.Loose, _ *assembly) error {
		if v.Blank() {
			set(rec, "")
			return nil
		}
		s, err := v.Text()
		if err != nil {
			return errBadClock
		}
		s = strings.ToUpper(s)
		for _, layout := range clockLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				set(rec, t.Format("15:04"))
				return nil
			}
		}
		return errBadClock
	}}
}

func count[T any](path string, min int, required bool, set func(*T, int)) fieldRule[T] {
	return fieldRule[T]{path: path, required: required, apply: func(rec *T, v models.Loose, _ *assembly) error {
		if v.Blank() {
			set(rec, 0)
			return nil
		}
		n, err := v.Number()
		if err != nil {
			return err
		}
		if n != math.Trunc(n) {
			return errWholeCount
		}
		if n < float64(min) {
			return fmt.Errorf("must be at least %d", min)
		}
		if n > maxCount {
			return fmt.Errorf("must be at most %d", maxCount)
		}
		set(rec, int(n))
		return nil
	}}
}

func amount[T any](path string, required bool, set func(*T, float64)) fieldRule[T] {
	return fieldRule[T]{path: path, required: required, apply: func(rec *T, v models.Loose, _ *assembly) error {
		if v.Blank() {
			set(rec, 0)
			return nil
		}
		n, err := v.Number()
		if err != nil {
			return err
		}
		if n < 0 {
			return errNegative
		}
		set(rec, n)
		return nil
	}}
}

func flag[T any](path string, set func(*T, bool)) fieldRule[T] {
	return fieldRule[T]{path: path, apply: func(rec *T, v models.Loose, _ *assembly) error {
		set(rec, v.Truthy())
		return nil
	}}
}

func pricingRules[T any](pricing func(*T) *models.Pricing) []fieldRule[T] {
	return []fieldRule[T]{
		amount("agent_commission", false, func(r *T, v float64) { pricing(r).AgentCommission = v }),
		amount("base_total", true, func(r *T, v float64) { pricing(r).BaseTotal = v }),
		amount("total_amount", true, func(r *T, v float64) { pricing(r).TotalAmount = v }),
	}
}

var bookingRules = append([]fieldRule[models.Booking]{
	text("package_name", true, func(b *models.Booking, v string) { b.PackageName = v }),
	ref("package_id", func(b *models.Booking, v string) { b.PackageID = v }),
	text("vehicle_name", false, func(b *models.Booking, v string) { b.VehicleName = v }),
	ref("vehicle_id", func(b *models.Booking, v string) { b.VehicleID = v }),

	date("pickup_date", func(b *models.Booking, v *time.Time) { b.Dates.PickupDate = v }),
	clock("pickup_time", func(b *models.Booking, v string) { b.Dates.PickupTime = v }),
	text("pickup_location", false, func(b *models.Booking, v string) { b.Dates.PickupLocation = v }),
	date("drop_date", func(b *models.Booking, v *time.Time) { b.Dates.DropDate = v }),
	clock("drop_time", func(b *models.Booking, v string) { b.Dates.DropTime = v }),
	text("drop_location", false, func(b *models.Booking, v string) { b.Dates.DropLocation = v }),

	count("adults_total", 1, true, func(b *models.Booking, v int) { b.Guests.AdultsTotal = v }),
	count("children", 0, false, func(b *models.Booking, v int) { b.Guests.Children = v }),
	count("infants", 0, false, func(b *models.Booking, v int) { b.Guests.Infants = v }),

	flag("entry_ticket_needed", func(b *models.Booking, v bool) { b.Extras.EntryTicketNeeded = v }),
	flag("snow_world_needed", func(b *models.Booking, v bool) { b.Extras.SnowWorldNeeded = v }),
	flag("extra_food.breakfast", func(b *models.Booking, v bool) { b.Extras.Breakfast = v }),
	flag("extra_food.lunchVeg", func(b *models.Booking, v bool) { b.Extras.LunchVeg = v }),
	flag("extra_food.lunchNonVeg", func(b *models.Booking, v bool) { b.Extras.LunchNonVeg = v }),
	flag("guideNeeded", func(b *models.Booking, v bool) { b.Extras.GuideNeeded = v }),

	ref("hotel_id", func(b *models.Booking, v string) { b.HotelID = v }),
	text("hotel_name", false, func(b *models.Booking, v string) { b.Hotel.HotelName = v }),
	text("food_plan", false, func(b *models.Booking, v string) { b.Hotel.FoodPlan = v }),
	count("rooms", 0, false, func(b *models.Booking, v int) { b.Hotel.Rooms = v }),
	count("extra_beds", 0, false, func(b *models.Booking, v int) { b.Hotel.ExtraBeds = v }),
}, pricingRules(func(b *models.Booking) *models.Pricing { return &b.Pricing })...)

var defaultBookingRules = append([]fieldRule[models.DefaultPackageBooking]{
	text("package_name", true, func(b *models.DefaultPackageBooking, v string) { b.PackageName = v }),
	ref("package_id", func(b *models.DefaultPackageBooking, v string) { b.PackageID = v }),

	date("pickup_date", func(b *models.DefaultPackageBooking, v *time.Time) { b.Dates.Outbound.PickupDate = v }),
	date("outbound_departure_time", func(b *models.DefaultPackageBooking, v *time.Time) { b.Dates.Outbound.DepartureTime = v }),
	date("outbound_arrival_time", func(b *models.DefaultPackageBooking, v *time.Time) { b.Dates.Outbound.ArrivalTime = v }),
	text("outbound_flight", false, func(b *models.DefaultPackageBooking, v string) { b.Dates.Outbound.Flight = v }),
	date("drop_date", func(b *models.DefaultPackageBooking, v *time.Time) { b.Dates.Return.DropDate = v }),
	date("return_departure_time", func(b *models.DefaultPackageBooking, v *time.Time) { b.Dates.Return.DepartureTime = v }),
	date("return_arrival_time", func(b *models.DefaultPackageBooking, v *time.Time) { b.Dates.Return.ArrivalTime = v }),
	text("return_flight", false, func(b *models.DefaultPackageBooking, v string) { b.Dates.Return.Flight = v }),

	count("adults_total", 1, true, func(b *models.DefaultPackageBooking, v int) { b.Guests.AdultsTotal = v }),
	count("children_with_bed", 0, false, func(b *models.DefaultPackageBooking, v int) { b.Guests.ChildrenWithBed = v }),
	count("children_without_bed", 0, false, func(b *models.DefaultPackageBooking, v int) { b.Guests.ChildrenWithoutBed = v }),
	count("infants", 0, false, func(b *models.DefaultPackageBooking, v int) { b.Guests.Infants = v }),
}, pricingRules(func(b *models.DefaultPackageBooking) *models.Pricing { return &b.Pricing })...)

// assemble runs rules over p. In patch mode absent fields leave rec untouched.
func assemble[T any](rules []fieldRule[T], p models.RawPayload, rec *T, patch bool) ([]string, error) {
	a := &assembly{}
	var errs domain.ValidationErrors
	for _, r := range rules {
		v := p.Lookup(r.path)
		if patch && !v.Present() {
			continue
		}
		if r.required && v.Blank() {
			errs = append(errs, domain.ValidationError{Field: r.path, Msg: errRequired.Error()})
			continue
		}
		if err := r.apply(rec, v, a); err != nil {
			errs = append(errs, domain.ValidationError{Field: r.path, Msg: err.Error(), Err: err})
		}
	}
	return a.omitted, errs.OrNil()
}

func requireTotal(p models.RawPayload) error {
	if p.Lookup("total_amount").Missing() {
		return domain.MissingFieldError{Field: "total_amount"}
	}
	return nil
}

// AssembleBooking turns a raw custom-package payload into a Booking. The
// returned slice names reference fields dropped for being malformed.
func AssembleBooking(p models.RawPayload) (models.Booking, []string, error) {
	if err := requireTotal(p); err != nil {
		return models.Booking{}, nil, err
	}
	var b models.Booking
	omitted, err := assemble(bookingRules, p, &b, false)
	if err != nil {
		return models.Booking{}, omitted, err
	}
	return b, omitted, nil
}

func AssembleDefaultBooking(p models.RawPayload) (models.DefaultPackageBooking, []string, error) {
	if err := requireTotal(p); err != nil {
		return models.DefaultPackageBooking{}, nil, err
	}
	var b models.DefaultPackageBooking
	omitted, err := assemble(defaultBookingRules, p, &b, false)
	if err != nil {
		return models.DefaultPackageBooking{}, omitted, err
	}
	return b, omitted, nil
}

// PatchBooking applies the fields present in p onto cur.
func PatchBooking(cur models.Booking, p models.RawPayload) (models.Booking, []string, error) {
	omitted, err := assemble(bookingRules, p, &cur, true)
	return cur, omitted, err
}

func PatchDefaultBooking(cur models.DefaultPackageBooking, p models.RawPayload) (models.DefaultPackageBooking, []string, error) {
	omitted, err := assemble(defaultBookingRules, p, &cur, true)
	return cur, omitted, err
}
