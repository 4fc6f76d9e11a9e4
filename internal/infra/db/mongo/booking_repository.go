package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "stayfinder/internal/domain/booking"
	domainproperty "stayfinder/internal/domain/property"
	domainrange "stayfinder/internal/domain/shared/daterange"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

// EnsureIndexes creates the lookup indexes the repository queries rely on.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "traveler_id", Value: 1}}},
		{Keys: bson.D{{Key: "check_in", Value: 1}, {Key: "check_out", Value: 1}}},
	})
	return err
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Insert(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	doc.Version = b.Version + 1
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrConcurrentUpdate
		}
		return err
	}
	b.Version = doc.Version
	return nil
}

// Update applies the optimistic version filter; a mismatch means another
// writer got there first.
func (r *BookingRepository) Update(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainbooking.ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

// Blocking pre-filters with the two-inequality overlap query. The domain
// predicate is still applied by the caller; this narrows the read.
func (r *BookingRepository) Blocking(ctx context.Context, id domainproperty.PropertyID, dr domainrange.DateRange) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"property_id": string(id),
		"status":      bson.M{"$in": []string{string(domainbooking.StatusPending), string(domainbooking.StatusAccepted)}},
		"check_in":    bson.M{"$lt": dr.CheckOut.UnixMilli()},
		"check_out":   bson.M{"$gt": dr.CheckIn.UnixMilli()},
	}
	return r.find(ctx, filter, nil)
}

func (r *BookingRepository) ListByTraveler(ctx context.Context, travelerID string) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"traveler_id": travelerID}, opts)
}

func (r *BookingRepository) ListByProperties(ctx context.Context, ids []domainproperty.PropertyID) ([]*domainbooking.Booking, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"property_id": bson.M{"$in": raw}}, opts)
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainbooking.Booking, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.col.Find(ctx, filter, opts)
	} else {
		cursor, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type bookingDocument struct {
	ID                 string `bson:"_id"`
	PropertyID         string `bson:"property_id"`
	TravelerID         string `bson:"traveler_id"`
	CheckIn            int64  `bson:"check_in"`
	CheckOut           int64  `bson:"check_out"`
	Guests             int    `bson:"guests"`
	TotalPriceCents    int64  `bson:"total_price_cents"`
	SpecialRequests    string `bson:"special_requests,omitempty"`
	Status             string `bson:"status"`
	CancelledBy        string `bson:"cancelled_by"`
	CancellationReason string `bson:"cancellation_reason,omitempty"`
	CancelledAt        int64  `bson:"cancelled_at,omitempty"`
	CreatedAt          int64  `bson:"created_at"`
	UpdatedAt          int64  `bson:"updated_at"`
	Version            int64  `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:                 string(b.ID),
		PropertyID:         string(b.PropertyID),
		TravelerID:         b.TravelerID,
		CheckIn:            b.Range.CheckIn.UnixMilli(),
		CheckOut:           b.Range.CheckOut.UnixMilli(),
		Guests:             b.Guests,
		TotalPriceCents:    b.TotalPriceCents,
		SpecialRequests:    b.SpecialRequests,
		Status:             string(b.Status),
		CancelledBy:        string(b.CancelledBy),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.UnixMilli(),
		UpdatedAt:          b.UpdatedAt.UnixMilli(),
		Version:            b.Version,
	}
	if !b.CancelledAt.IsZero() {
		doc.CancelledAt = b.CancelledAt.UnixMilli()
	}
	return doc
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	b := &domainbooking.Booking{
		ID:                 domainbooking.BookingID(d.ID),
		PropertyID:         domainproperty.PropertyID(d.PropertyID),
		TravelerID:         d.TravelerID,
		Range:              domainrange.DateRange{CheckIn: timestampToTime(d.CheckIn), CheckOut: timestampToTime(d.CheckOut)},
		Guests:             d.Guests,
		TotalPriceCents:    d.TotalPriceCents,
		SpecialRequests:    d.SpecialRequests,
		Status:             domainbooking.Status(d.Status),
		CancelledBy:        domainbooking.Role(d.CancelledBy),
		CancellationReason: d.CancellationReason,
		CreatedAt:          timestampToTime(d.CreatedAt),
		UpdatedAt:          timestampToTime(d.UpdatedAt),
		Version:            d.Version,
	}
	if d.CancelledBy == "" {
		b.CancelledBy = domainbooking.RoleNone
	}
	if d.CancelledAt != 0 {
		b.CancelledAt = timestampToTime(d.CancelledAt)
	}
	return b
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
