package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intdb "travelagency/internal/db"
	"travelagency/internal/domain/models"
)

const (
	tableBookings        = "bookings"
	tableDefaultBookings = "default_package_bookings"
)

// commonColumns exist with the same meaning in both booking tables.
var commonColumns = []string{
	"id", "agent_id",
	"contact_name", "contact_email", "contact_mobile", "contact_state",
	"package_id", "package_name",
	"agent_commission", "base_total", "total_amount",
	"status", "created_at", "updated_at",
}

// editableCommonColumns are rewritten by an admin update. Identity, owner,
// contact snapshot, status and created_at are not.
var editableCommonColumns = []string{
	"package_id", "package_name",
	"agent_commission", "base_total", "total_amount",
	"updated_at",
}

var bookingColumns = []string{
	"vehicle_id", "vehicle_name",
	"pickup_date", "pickup_time", "pickup_location",
	"drop_date", "drop_time", "drop_location",
	"adults_total", "children", "infants",
	"entry_ticket_needed", "snow_world_needed", "breakfast", "lunch_veg", "lunch_non_veg", "guide_needed",
	"hotel_id", "hotel_name", "food_plan", "rooms", "extra_beds",
}

var defaultBookingColumns = []string{
	"pickup_date", "outbound_departure_time", "outbound_arrival_time", "outbound_flight",
	"drop_date", "return_departure_time", "return_arrival_time", "return_flight",
	"adults_total", "children_with_bed", "children_without_bed", "infants",
}

type commonRow struct {
	id, agentID                sql.NullString
	name, email, mobile, state sql.NullString
	packageID, packageName     sql.NullString
	commission, base, total    sql.NullFloat64
	status                     sql.NullString
	createdAt, updatedAt       sql.NullTime
}

func (r *commonRow) dest() []any {
	return []any{
		&r.id, &r.agentID,
		&r.name, &r.email, &r.mobile, &r.state,
		&r.packageID, &r.packageName,
		&r.commission, &r.base, &r.total,
		&r.status, &r.createdAt, &r.updatedAt,
	}
}

func (r commonRow) contact() models.Contact {
	return models.Contact{
		Name:         r.name.String,
		Email:        r.email.String,
		MobileNumber: r.mobile.String,
		State:        r.state.String,
	}
}

func (r commonRow) pricing() models.Pricing {
	return models.Pricing{
		AgentCommission: r.commission.Float64,
		BaseTotal:       r.base.Float64,
		TotalAmount:     r.total.Float64,
	}
}

func commonArgs(id, agentID string, c models.Contact, packageID, packageName string, p models.Pricing, status models.Status, createdAt, updatedAt time.Time) []any {
	return []any{
		id, agentID,
		c.Name, c.Email, c.MobileNumber, c.State,
		intdb.NullIfEmpty(packageID), packageName,
		p.AgentCommission, p.BaseTotal, p.TotalAmount,
		string(status), createdAt.UTC(), updatedAt.UTC(),
	}
}

func editableCommonArgs(packageID, packageName string, p models.Pricing, updatedAt time.Time) []any {
	return []any{
		intdb.NullIfEmpty(packageID), packageName,
		p.AgentCommission, p.BaseTotal, p.TotalAmount,
		updatedAt.UTC(),
	}
}

type bookingRow struct {
	vehicleID, vehicleName            sql.NullString
	pickupDate                        sql.NullTime
	pickupTime, pickupLocation        sql.NullString
	dropDate                          sql.NullTime
	dropTime, dropLocation            sql.NullString
	adults, children, infants         sql.NullInt64
	entry, snow, breakfast            sql.NullBool
	lunchVeg, lunchNonVeg, guide      sql.NullBool
	hotelID, hotelName, foodPlan      sql.NullString
	rooms, extraBeds                  sql.NullInt64
}

func (r *bookingRow) dest() []any {
	return []any{
		&r.vehicleID, &r.vehicleName,
		&r.pickupDate, &r.pickupTime, &r.pickupLocation,
		&r.dropDate, &r.dropTime, &r.dropLocation,
		&r.adults, &r.children, &r.infants,
		&r.entry, &r.snow, &r.breakfast, &r.lunchVeg, &r.lunchNonVeg, &r.guide,
		&r.hotelID, &r.hotelName, &r.foodPlan, &r.rooms, &r.extraBeds,
	}
}

func (r bookingRow) booking(c commonRow) models.Booking {
	return models.Booking{
		ID:          c.id.String,
		AgentID:     c.agentID.String,
		Contact:     c.contact(),
		PackageID:   c.packageID.String,
		PackageName: c.packageName.String,
		VehicleID:   r.vehicleID.String,
		VehicleName: r.vehicleName.String,
		Dates: models.TripDates{
			PickupDate:     intdb.TimePtr(r.pickupDate),
			PickupTime:     r.pickupTime.String,
			PickupLocation: r.pickupLocation.String,
			DropDate:       intdb.TimePtr(r.dropDate),
			DropTime:       r.dropTime.String,
			DropLocation:   r.dropLocation.String,
		},
		Guests: models.Guests{
			AdultsTotal: int(r.adults.Int64),
			Children:    int(r.children.Int64),
			Infants:     int(r.infants.Int64),
		},
		Extras: models.Extras{
			EntryTicketNeeded: r.entry.Bool,
			SnowWorldNeeded:   r.snow.Bool,
			Breakfast:         r.breakfast.Bool,
			LunchVeg:          r.lunchVeg.Bool,
			LunchNonVeg:       r.lunchNonVeg.Bool,
			GuideNeeded:       r.guide.Bool,
		},
		HotelID: r.hotelID.String,
		Hotel: models.HotelChoice{
			HotelName: r.hotelName.String,
			FoodPlan:  r.foodPlan.String,
			Rooms:     int(r.rooms.Int64),
			ExtraBeds: int(r.extraBeds.Int64),
		},
		Pricing:   c.pricing(),
		Status:    models.Status(c.status.String),
		CreatedAt: c.createdAt.Time.UTC(),
		UpdatedAt: c.updatedAt.Time.UTC(),
	}
}

func bookingArgs(b models.Booking) []any {
	return []any{
		intdb.NullIfEmpty(b.VehicleID), b.VehicleName,
		intdb.NullTime(b.Dates.PickupDate), b.Dates.PickupTime, b.Dates.PickupLocation,
		intdb.NullTime(b.Dates.DropDate), b.Dates.DropTime, b.Dates.DropLocation,
		b.Guests.AdultsTotal, b.Guests.Children, b.Guests.Infants,
		b.Extras.EntryTicketNeeded, b.Extras.SnowWorldNeeded, b.Extras.Breakfast,
		b.Extras.LunchVeg, b.Extras.LunchNonVeg, b.Extras.GuideNeeded,
		intdb.NullIfEmpty(b.HotelID), b.Hotel.HotelName, b.Hotel.FoodPlan, b.Hotel.Rooms, b.Hotel.ExtraBeds,
	}
}

type defaultBookingRow struct {
	pickupDate, outDeparture, outArrival  sql.NullTime
	outFlight                             sql.NullString
	dropDate, retDeparture, retArrival    sql.NullTime
	retFlight                             sql.NullString
	adults, withBed, withoutBed, infants  sql.NullInt64
}

func (r *defaultBookingRow) dest() []any {
	return []any{
		&r.pickupDate, &r.outDeparture, &r.outArrival, &r.outFlight,
		&r.dropDate, &r.retDeparture, &r.retArrival, &r.retFlight,
		&r.adults, &r.withBed, &r.withoutBed, &r.infants,
	}
}

func (r defaultBookingRow) booking(c commonRow) models.DefaultPackageBooking {
	return models.DefaultPackageBooking{
		ID:          c.id.String,
		AgentID:     c.agentID.String,
		Contact:     c.contact(),
		PackageID:   c.packageID.String,
		PackageName: c.packageName.String,
		Dates: models.DefaultDates{
			Outbound: models.OutboundLeg{
				PickupDate:    intdb.TimePtr(r.pickupDate),
				DepartureTime: intdb.TimePtr(r.outDeparture),
				ArrivalTime:   intdb.TimePtr(r.outArrival),
				Flight:        r.outFlight.String,
			},
			Return: models.ReturnLeg{
				DropDate:      intdb.TimePtr(r.dropDate),
				DepartureTime: intdb.TimePtr(r.retDeparture),
				ArrivalTime:   intdb.TimePtr(r.retArrival),
				Flight:        r.retFlight.String,
			},
		},
		Guests: models.DefaultGuests{
			AdultsTotal:        int(r.adults.Int64),
			ChildrenWithBed:    int(r.withBed.Int64),
			ChildrenWithoutBed: int(r.withoutBed.Int64),
			Infants:            int(r.infants.Int64),
		},
		Pricing:   c.pricing(),
		Status:    models.Status(c.status.String),
		CreatedAt: c.createdAt.Time.UTC(),
		UpdatedAt: c.updatedAt.Time.UTC(),
	}
}

func defaultBookingArgs(b models.DefaultPackageBooking) []any {
	out, ret := b.Dates.Outbound, b.Dates.Return
	return []any{
		intdb.NullTime(out.PickupDate), intdb.NullTime(out.DepartureTime), intdb.NullTime(out.ArrivalTime), out.Flight,
		intdb.NullTime(ret.DropDate), intdb.NullTime(ret.DepartureTime), intdb.NullTime(ret.ArrivalTime), ret.Flight,
		b.Guests.AdultsTotal, b.Guests.ChildrenWithBed, b.Guests.ChildrenWithoutBed, b.Guests.Infants,
	}
}

func joinColumns(groups ...[]string) string {
	all := []string{}
	for _, g := range groups {
		all = append(all, g...)
	}
	return strings.Join(all, ", ")
}

func countColumns(groups ...[]string) int {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	return n
}

func setClause(groups ...[]string) string {
	parts := []string{}
	for _, g := range groups {
		for _, c := range g {
			parts = append(parts, c+" = ?")
		}
	}
	return strings.Join(parts, ", ")
}

// updateStatus is the conditional write behind every lifecycle transition.
func updateStatus(ctx context.Context, db *sql.DB, table, id string, from []models.Status, to models.Status, at time.Time) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	args := []any{string(to), at.UTC(), id}
	for _, s := range from {
		args = append(args, string(s))
	}
	query := fmt.Sprintf(`UPDATE %s SET status = ?, updated_at = ? WHERE id = ? AND status IN (%s)`, table, intdb.Placeholders(len(from)))
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update %s status: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update %s status: %w", table, err)
	}
	return n == 1, nil
}

func deleteByID(ctx context.Context, db *sql.DB, table, id string) (bool, error) {
	res, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	return n > 0, nil
}

func execAffected(ctx context.Context, db *sql.DB, what, query string, args ...any) (bool, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", what, err)
	}
	return n > 0, nil
}
